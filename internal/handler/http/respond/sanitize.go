package respond

import (
	"regexp"
)

var (
	// RapidAPI のキー形式: <hex>msh<hex>p<hex>jsn<hex>
	rapidAPIKeyPattern = regexp.MustCompile(`[0-9a-zA-Z]{6,}msh[0-9a-zA-Z]{6,}jsn[0-9a-zA-Z]{6,}`)

	// ヘッダー値として現れるキー
	rapidAPIHeaderPattern = regexp.MustCompile(`(?i)(x-rapidapi-key["']?\s*[:=]\s*["']?)[^\s"',}]+`)

	// プロキシURL等に含まれる認証情報
	userinfoPattern = regexp.MustCompile(`://([^:/@\s]+):([^@\s]+)@`)
)

// SanitizeError returns err's message with credentials masked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	msg = rapidAPIHeaderPattern.ReplaceAllString(msg, "${1}****")
	msg = rapidAPIKeyPattern.ReplaceAllString(msg, "****")
	msg = userinfoPattern.ReplaceAllString(msg, "://$1:****@")
	return msg
}

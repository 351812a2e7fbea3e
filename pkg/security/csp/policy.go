// Package csp builds Content-Security-Policy header values.
package csp

import (
	"strings"
)

// Header names.
const (
	HeaderEnforce    = "Content-Security-Policy"
	HeaderReportOnly = "Content-Security-Policy-Report-Only"
)

// directiveOrder keeps Build output stable.
var directiveOrder = []string{
	"default-src",
	"script-src",
	"style-src",
	"img-src",
	"connect-src",
	"frame-ancestors",
	"form-action",
	"base-uri",
	"object-src",
}

// Builder provides a fluent interface for constructing a policy.
//
//	policy := csp.NewBuilder().
//	    DefaultSrc("'none'").
//	    StyleSrc("'self'").
//	    Build()
//	// "default-src 'none'; style-src 'self'"
//
// A Builder is not safe for concurrent modification.
type Builder struct {
	directives map[string][]string
	reportOnly bool
}

// NewBuilder returns an empty policy.
func NewBuilder() *Builder {
	return &Builder{directives: make(map[string][]string)}
}

func (b *Builder) set(directive string, sources []string) *Builder {
	b.directives[directive] = sources
	return b
}

// DefaultSrc sets default-src, the fallback for other fetch directives.
func (b *Builder) DefaultSrc(sources ...string) *Builder { return b.set("default-src", sources) }

// ScriptSrc sets script-src.
func (b *Builder) ScriptSrc(sources ...string) *Builder { return b.set("script-src", sources) }

// StyleSrc sets style-src.
func (b *Builder) StyleSrc(sources ...string) *Builder { return b.set("style-src", sources) }

// ImgSrc sets img-src.
func (b *Builder) ImgSrc(sources ...string) *Builder { return b.set("img-src", sources) }

// ConnectSrc sets connect-src.
func (b *Builder) ConnectSrc(sources ...string) *Builder { return b.set("connect-src", sources) }

// FrameAncestors sets frame-ancestors (clickjacking protection).
func (b *Builder) FrameAncestors(sources ...string) *Builder {
	return b.set("frame-ancestors", sources)
}

// FormAction sets form-action.
func (b *Builder) FormAction(sources ...string) *Builder { return b.set("form-action", sources) }

// BaseURI sets base-uri.
func (b *Builder) BaseURI(sources ...string) *Builder { return b.set("base-uri", sources) }

// ObjectSrc sets object-src.
func (b *Builder) ObjectSrc(sources ...string) *Builder { return b.set("object-src", sources) }

// ReportOnly switches the header to report-only mode.
func (b *Builder) ReportOnly(enabled bool) *Builder {
	b.reportOnly = enabled
	return b
}

// Build returns the header value. Directives without sources are skipped.
func (b *Builder) Build() string {
	parts := make([]string, 0, len(b.directives))
	for _, d := range directiveOrder {
		if sources := b.directives[d]; len(sources) > 0 {
			parts = append(parts, d+" "+strings.Join(sources, " "))
		}
	}
	return strings.Join(parts, "; ")
}

// HeaderName returns the enforcing or report-only header name.
func (b *Builder) HeaderName() string {
	if b.reportOnly {
		return HeaderReportOnly
	}
	return HeaderEnforce
}

// ScreenPolicy is the policy for the server-rendered event screen: no
// scripts, same-origin styles and images only, toggle links stay GETs.
func ScreenPolicy() *Builder {
	return NewBuilder().
		DefaultSrc("'none'").
		StyleSrc("'self'").
		ImgSrc("'self'", "data:").
		FrameAncestors("'none'").
		FormAction("'none'").
		BaseURI("'none'")
}

// APIPolicy is the policy for JSON and probe responses.
func APIPolicy() *Builder {
	return NewBuilder().
		DefaultSrc("'none'").
		FrameAncestors("'none'")
}

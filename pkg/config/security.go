package config

// SecurityHeadersConfig controls the response security headers.
type SecurityHeadersConfig struct {
	CSPEnabled    bool
	CSPReportOnly bool
}

// LoadSecurityHeadersConfig reads CSP_ENABLED (default: true) and
// CSP_REPORT_ONLY (default: false).
func LoadSecurityHeadersConfig() SecurityHeadersConfig {
	return SecurityHeadersConfig{
		CSPEnabled:    GetEnvBool("CSP_ENABLED", true),
		CSPReportOnly: GetEnvBool("CSP_REPORT_ONLY", false),
	}
}

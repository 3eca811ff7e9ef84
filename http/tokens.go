package http

import (
	"html"
	"regexp"
)

// Login pages hand the browser its next step inside inline script or hidden
// form inputs rather than HTTP headers. These patterns pull those values out
// of the raw page text.
var (
	jsRedirectRE   = regexp.MustCompile(`(?:top|window|self)?\.location\.href\s*=\s*['"]([^'"]+)['"]`)
	userTokenRE    = regexp.MustCompile(`(?:window)?\.g_ck\s*=\s*['"]([^'"]+)['"]`)
	samlResponseRE = regexp.MustCompile(`<input type="hidden" name="SAMLResponse" value="([^"]+)"`)
)

// JSRedirect extracts the target of a JavaScript location.href redirect from
// page content. Returns "" when the page contains none.
func JSRedirect(content string) string {
	return extractToken(jsRedirectRE, content)
}

// UserToken extracts the session user token (g_ck) assigned by the login
// page. Returns "" when the page contains none.
func UserToken(content string) string {
	return extractToken(userTokenRE, content)
}

// SAMLResponse extracts the SAMLResponse value from an identity provider's
// auto-submit form. Returns "" when the page contains none.
func SAMLResponse(content string) string {
	return extractToken(samlResponseRE, content)
}

// extractToken returns the first capture group of re in content, with HTML
// entities decoded. Values embedded in attributes arrive entity-escaped.
func extractToken(re *regexp.Regexp, content string) string {
	m := re.FindStringSubmatch(content)
	if m == nil {
		return ""
	}
	return html.UnescapeString(m[1])
}

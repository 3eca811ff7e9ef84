package http

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/jfelczak/snowgrid"
)

// maxLoginHops bounds the redirect chain followed during login. SSO flows
// legitimately bounce through several hosts, but a loop must not hang the
// pipeline.
const maxLoginHops = 10

// Session walks an SSO login flow on top of a Fetcher's HTTP client so the
// resulting cookies are visible to subsequent report requests.
type Session struct {
	client    *http.Client
	userAgent string

	// UserToken holds the g_ck token discovered during login, when the
	// landing page assigns one.
	UserToken string
}

// NewSession creates a Session sharing the fetcher's client and cookie jar.
func NewSession(f *Fetcher) *Session {
	return &Session{
		client:    f.Client(),
		userAgent: f.userAgent,
	}
}

// Login follows the SSO flow starting at loginURL until a page arrives that
// is neither a JavaScript redirect nor an identity provider form. Cookies
// set along the way accumulate in the shared jar.
//
// Returns EUNAUTHORIZED if the flow does not settle within the hop budget.
func (s *Session) Login(ctx context.Context, loginURL string) error {
	current := loginURL
	referer := ""

	for hop := 0; hop < maxLoginHops; hop++ {
		content, finalURL, err := s.get(ctx, current, referer)
		if err != nil {
			return err
		}

		if token := UserToken(content); token != "" {
			s.UserToken = token
		}

		// The identity provider hands back an auto-submit form; the
		// browser would POST it, so the session does too.
		if saml := SAMLResponse(content); saml != "" {
			target := formAction(content)
			if target == "" {
				target = finalURL
			}
			content, finalURL, err = s.postSAML(ctx, resolveRef(finalURL, target), finalURL, saml)
			if err != nil {
				return err
			}
			if token := UserToken(content); token != "" {
				s.UserToken = token
			}
		}

		next := JSRedirect(content)
		if next == "" {
			return nil
		}

		referer = finalURL
		current = withSSOReload(resolveRef(finalURL, next))
	}

	return snowgrid.Errorf(snowgrid.EUNAUTHORIZED, "login did not settle after %d redirects", maxLoginHops)
}

// get fetches a page, returning its body and the URL it was ultimately
// served from after any protocol-level redirects.
func (s *Session) get(ctx context.Context, rawURL, referer string) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("User-Agent", s.userAgent)
	if referer != "" {
		req.Header.Set("Referer", referer)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", "", snowgrid.Errorf(snowgrid.EUNAUTHORIZED, "login step rejected: HTTP %d for %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", err
	}
	return string(body), resp.Request.URL.String(), nil
}

// postSAML submits a SAMLResponse form back to the service provider.
func (s *Session) postSAML(ctx context.Context, target, referer, saml string) (string, string, error) {
	form := url.Values{"SAMLResponse": {saml}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if referer != "" {
		req.Header.Set("Referer", referer)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", err
	}
	return string(body), resp.Request.URL.String(), nil
}

// formActionRE matches the action attribute of the first form on the page,
// which is where an auto-submit SAML form points.
var formActionRE = regexp.MustCompile(`<form[^>]*\baction="([^"]+)"`)

// formAction returns the entity-decoded action of the first form in content,
// or "" when the page has none.
func formAction(content string) string {
	return extractToken(formActionRE, content)
}

// resolveRef resolves ref against base, tolerating relative redirect targets.
// Unparseable inputs fall back to ref unchanged.
func resolveRef(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

// withSSOReload appends sso_reload=true to a redirect target. Login
// endpoints loop back to the same URL until the parameter is present.
func withSSOReload(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	if q.Get("sso_reload") == "" {
		q.Set("sso_reload", "true")
		u.RawQuery = q.Encode()
	}
	return u.String()
}

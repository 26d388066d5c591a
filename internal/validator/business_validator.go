package validator

import (
	"html"
	"net/url"
	"regexp"
	"strings"
)

var handlePattern = regexp.MustCompile(`^[a-z0-9_-]{3,30}$`)

// recognizedMeetingDomains lists the video-conferencing hosts a session
// meeting link may point at. Subdomains count (us04web.zoom.us etc.).
var recognizedMeetingDomains = []string{
	"zoom.us",
	"meet.google.com",
	"teams.microsoft.com",
}

// IsRecognizedMeetingURL reports whether raw is an https URL on one of the
// recognized video-conferencing domains.
func IsRecognizedMeetingURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "https" || u.Hostname() == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, domain := range recognizedMeetingDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// IsValidHandle reports whether s matches the handle rules.
func IsValidHandle(s string) bool {
	return handlePattern.MatchString(s)
}

// Sanitize trims surrounding whitespace and escapes HTML metacharacters.
// Applied to every free-text field before it reaches storage.
func Sanitize(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}

// SanitizeAll sanitizes a string slice, dropping entries that end up empty.
func SanitizeAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if clean := Sanitize(v); clean != "" {
			out = append(out, clean)
		}
	}
	return out
}

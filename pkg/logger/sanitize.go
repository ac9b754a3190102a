package logger

import (
	"net/url"
	"strings"
)

// SanitizedEmail masks an email address for logging (e.g., "u***@*****.com")
func SanitizedEmail(email string) string {
	username, domain, ok := strings.Cut(email, "@")
	if !ok || username == "" || domain == "" || strings.Contains(domain, "@") {
		return "[invalid-email]"
	}

	if len(username) > 1 {
		username = username[:1] + strings.Repeat("*", len(username)-1)
	}

	labels := strings.Split(domain, ".")
	for i := 0; i < len(labels)-1; i++ {
		labels[i] = strings.Repeat("*", len(labels[i]))
	}

	return username + "@" + strings.Join(labels, ".")
}

var sensitiveParams = map[string]bool{
	"password": true,
	"token":    true,
	"secret":   true,
	"email":    true,
	"auth":     true,
}

// SensitiveQuery reports whether any parameter name in rawQuery looks like
// it carries a credential or personal data.
func SensitiveQuery(rawQuery string) bool {
	if rawQuery == "" {
		return false
	}
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		// Unparseable queries are redacted wholesale
		return true
	}
	for key := range values {
		lower := strings.ToLower(key)
		for param := range sensitiveParams {
			if strings.Contains(lower, param) {
				return true
			}
		}
	}
	return false
}

// secretPathMarkers are path segments followed by a bearer secret.
var secretPathMarkers = []string{"reset-password"}

// RedactPath replaces the segment after a secret-carrying marker.
func RedactPath(path string) string {
	segments := strings.Split(path, "/")
	for i := 0; i < len(segments)-1; i++ {
		for _, marker := range secretPathMarkers {
			if segments[i] == marker && segments[i+1] != "" {
				segments[i+1] = "[REDACTED]"
			}
		}
	}
	return strings.Join(segments, "/")
}

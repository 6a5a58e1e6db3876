package audit

// TruncateToken shortens a bearer token so audit records never carry a usable
// credential. The first few characters stay for correlation.
func TruncateToken(token string) string {
	const keep = 8
	if token == "" {
		return ""
	}
	if len(token) <= keep {
		return token[:1] + "…"
	}
	return token[:keep] + "…"
}

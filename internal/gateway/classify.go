package gateway

import (
	"strings"

	dErrors "nidbridge/pkg/domain-errors"
)

// Classification is textual substring matching against the underlying failure
// description — an accepted simplification inherited from the provider's
// heterogeneous failure modes. Rules are evaluated in priority order; any
// failure no rule claims defaults to service_unavailable, biasing toward
// "try later" rather than a more specific, possibly wrong, kind.
type rule struct {
	match func(desc string) bool
	code  dErrors.Code
}

var classificationRules = []rule{
	{containsAny("status 400", "bad request"), dErrors.CodeBadRequest},
	{containsAny("status 401", "unauthorized"), dErrors.CodeUnauthorized},
	{containsAny("status 403", "forbidden"), dErrors.CodeForbidden},
	{containsAny("status 404", "not found"), dErrors.CodeNotFound},
	{containsAny("status 500", "internal server error"), dErrors.CodeUpstreamError},
	// Timeouts, refused connections, and malformed upstream bodies all land
	// here; the raw description survives in the audit trail.
	{containsAny(
		"status 503",
		"service unavailable",
		"timeout",
		"deadline exceeded",
		"connection refused",
		"connection reset",
		"no such host",
		"eof",
		"invalid character",
		"unexpected content-type",
	), dErrors.CodeServiceUnavailable},
}

// Classify maps a failure description to exactly one of the six error kinds.
func Classify(desc string) dErrors.Code {
	lower := strings.ToLower(desc)
	for _, r := range classificationRules {
		if r.match(lower) {
			return r.code
		}
	}
	return dErrors.CodeServiceUnavailable
}

func containsAny(needles ...string) func(string) bool {
	return func(desc string) bool {
		for _, n := range needles {
			if strings.Contains(desc, n) {
				return true
			}
		}
		return false
	}
}

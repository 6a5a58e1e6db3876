package gateway

import (
	"testing"

	"github.com/stretchr/testify/require"

	dErrors "nidbridge/pkg/domain-errors"
)

// Classification must be total: every failure description maps to exactly one
// of the six kinds, with unknown failures defaulting to service_unavailable.
func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		desc string
		want dErrors.Code
	}{
		{"http 400", `status 400: {"error":"missing national_id"}`, dErrors.CodeBadRequest},
		{"http 401", `status 401: token expired`, dErrors.CodeUnauthorized},
		{"http 403", `status 403: AFIS quota exhausted`, dErrors.CodeForbidden},
		{"http 404", `status 404: job not found`, dErrors.CodeNotFound},
		{"http 500", `status 500: internal server error`, dErrors.CodeUpstreamError},
		{"http 503", `status 503: maintenance window`, dErrors.CodeServiceUnavailable},
		{"client timeout", `Post "http://provider/auth/login": context deadline exceeded (Client.Timeout exceeded while awaiting headers)`, dErrors.CodeServiceUnavailable},
		{"connection refused", `dial tcp 127.0.0.1:9000: connect: connection refused`, dErrors.CodeServiceUnavailable},
		{"dns failure", `dial tcp: lookup provider.invalid: no such host`, dErrors.CodeServiceUnavailable},
		{"malformed json body", `decode response: invalid character '<' looking for beginning of value`, dErrors.CodeServiceUnavailable},
		{"non-json content type", `unexpected content-type "text/html"`, dErrors.CodeServiceUnavailable},
		{"phrase without status code", `upstream said Bad Request`, dErrors.CodeBadRequest},
		{"unknown failure", `something entirely novel happened`, dErrors.CodeServiceUnavailable},
		{"empty description", ``, dErrors.CodeServiceUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Classify(tc.desc))
		})
	}
}

// Priority order matters: a 400 body that happens to mention a timeout is
// still a bad request.
func TestClassifyPriorityOrder(t *testing.T) {
	require.Equal(t, dErrors.CodeBadRequest, Classify(`status 400: validation timeout on field dob`))
	require.Equal(t, dErrors.CodeUnauthorized, Classify(`status 401: session not found`))
}

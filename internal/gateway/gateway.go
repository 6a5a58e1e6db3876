// Package gateway is the single choke point for every call to the
// national-identity provider. It serializes requests, attaches bearer tokens,
// bounds every call with a timeout, and maps the provider's heterogeneous
// failures into a six-kind taxonomy.
//
// The gateway never retries: provider calls are not assumed idempotent (a
// login attempt must not be silently repeated), so retry policy belongs to
// callers. Every call is audit-logged best-effort before returning; logging
// never masks or alters the classified outcome.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"nidbridge/internal/audit"
	"nidbridge/internal/gateway/metrics"
	"nidbridge/internal/platform/config"
	dErrors "nidbridge/pkg/domain-errors"
	"nidbridge/pkg/requestcontext"
)

const maxResponseBytes = 64 << 10

// Auditor receives one event per outbound call.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Gateway speaks the provider wire protocol. It holds no session state of its
// own; token lifecycle lives in the token cache.
type Gateway struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
	auditor Auditor
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

func New(cfg config.ProviderConfig, logger *slog.Logger, auditor Auditor, m *metrics.Metrics) *Gateway {
	return &Gateway{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
		auditor: auditor,
		metrics: m,
		tracer:  otel.Tracer("nidbridge/gateway"),
	}
}

// Login exchanges provider credentials for a bearer token pair.
func (g *Gateway) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	var pair TokenPair
	req := LoginRequest{Username: username, Password: password}
	echo := fmt.Sprintf(`{"username":%q,"password":"[redacted]"}`, username)
	if err := g.call(ctx, "login", http.MethodPost, g.baseURL+"/auth/login", "", req, &pair, echo); err != nil {
		return nil, err
	}
	return &pair, nil
}

// Logout invalidates the provider session behind token.
func (g *Gateway) Logout(ctx context.Context, token string) error {
	return g.call(ctx, "logout", http.MethodPost, g.baseURL+"/auth/logout", token, struct{}{}, nil, "{}")
}

// ChangePassword rotates the provider password. On success the provider
// invalidates all outstanding tokens; evicting the cache entry is the
// caller's duty.
func (g *Gateway) ChangePassword(ctx context.Context, token string, req ChangePasswordRequest) error {
	echo := `{"current_password":"[redacted]","new_password":"[redacted]","confirm_password":"[redacted]"}`
	return g.call(ctx, "change_password", http.MethodPost, g.baseURL+"/auth/change-password", token, req, nil, echo)
}

// VerifyDemographic matches identity and biographic fields against the
// national registry.
func (g *Gateway) VerifyDemographic(ctx context.Context, token string, req DemographicRequest) (*DemographicResult, error) {
	var result DemographicResult
	if err := g.call(ctx, "verify_demographic", http.MethodPost, g.baseURL+"/verify/demographic", token, req, &result, jsonEcho(req)); err != nil {
		return nil, err
	}
	return &result, nil
}

// BillingReport fetches aggregated usage for a YYYY-MM-DD date range.
func (g *Gateway) BillingReport(ctx context.Context, token string, req BillingRequest) (*BillingReport, error) {
	var report BillingReport
	if err := g.call(ctx, "billing_report", http.MethodPost, g.baseURL+"/billing/report", token, req, &report, jsonEcho(req)); err != nil {
		return nil, err
	}
	return &report, nil
}

// VerifyAFIS starts a fingerprint verification job and returns the
// pre-signed upload URLs plus the result-check location.
func (g *Gateway) VerifyAFIS(ctx context.Context, token string, req AFISVerifyRequest) (*AFISVerifyResult, error) {
	var result AFISVerifyResult
	if err := g.call(ctx, "afis_verify", http.MethodPost, g.baseURL+"/afis/verification", token, req, &result, jsonEcho(req)); err != nil {
		return nil, err
	}
	return &result, nil
}

// AFISResult polls a verification job by ID.
func (g *Gateway) AFISResult(ctx context.Context, token, jobID string) (*AFISResultStatus, error) {
	var status AFISResultStatus
	url := g.baseURL + "/afis/verification/" + jobID
	if err := g.call(ctx, "afis_result", http.MethodGet, url, token, nil, &status, ""); err != nil {
		return nil, err
	}
	return &status, nil
}

// UploadFingerprint PUTs raw fingerprint bytes to a pre-signed URL. The URL
// embeds its own authorization; no bearer token is attached.
func (g *Gateway) UploadFingerprint(ctx context.Context, uploadURL string, data []byte) error {
	op := "fingerprint_upload"
	ctx, span := g.tracer.Start(ctx, "provider."+op)
	defer span.End()

	start := time.Now()
	err := g.doUpload(ctx, uploadURL, data)
	elapsed := time.Since(start)

	event := audit.Event{
		Target:    audit.TargetProvider,
		Operation: op,
		Actor:     requestcontext.Username(ctx),
		RequestID: requestcontext.RequestID(ctx),
		Request:   fmt.Sprintf("<%d fingerprint bytes>", len(data)),
		LatencyMS: elapsed.Milliseconds(),
	}

	var derr error
	outcome := "ok"
	if err != nil {
		code := Classify(err.Error())
		derr = dErrors.Wrap(code, "provider fingerprint upload failed", err)
		event.Error = err.Error()
		event.ErrorKind = string(code)
		outcome = string(code)
		span.RecordError(err)
	} else {
		event.Response = "uploaded"
	}
	g.metrics.Observe(op, outcome, elapsed)
	g.emit(ctx, event)
	return derr
}

func (g *Gateway) doUpload(ctx context.Context, uploadURL string, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		return fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}
	return nil
}

// call runs one provider operation end to end: serialize, send, classify,
// audit, observe. echo is the pre-sanitized request body recorded in the
// audit trail (secrets already redacted by the operation).
func (g *Gateway) call(ctx context.Context, op, method, url, token string, body, out any, echo string) error {
	ctx, span := g.tracer.Start(ctx, "provider."+op)
	defer span.End()

	start := time.Now()
	respEcho, err := g.do(ctx, method, url, token, body, out)
	elapsed := time.Since(start)

	event := audit.Event{
		Target:    audit.TargetProvider,
		Operation: op,
		Actor:     requestcontext.Username(ctx),
		RequestID: requestcontext.RequestID(ctx),
		Request:   echo,
		Response:  redactTokens(respEcho),
		LatencyMS: elapsed.Milliseconds(),
	}
	if token != "" {
		event.Request = event.Request + ` authorization="Bearer ` + audit.TruncateToken(token) + `"`
	}

	var derr error
	outcome := "ok"
	if err != nil {
		code := Classify(err.Error())
		derr = dErrors.Wrap(code, "provider "+op+" failed", err)
		event.Response = ""
		event.Error = err.Error()
		event.ErrorKind = string(code)
		outcome = string(code)
		span.RecordError(err)
	}

	g.metrics.Observe(op, outcome, elapsed)
	g.emit(ctx, event)
	return derr
}

// do issues the HTTP exchange and returns a response echo for the audit
// trail. Any failure comes back as a plain error whose description feeds the
// classifier.
func (g *Gateway) do(ctx context.Context, method, url, token string, body, out any) (string, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return "", fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return "", err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, raw)
	}

	if out == nil {
		return string(raw), nil
	}

	if mt, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type")); mt != "application/json" {
		return "", fmt.Errorf("unexpected content-type %q", resp.Header.Get("Content-Type"))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return string(raw), nil
}

func (g *Gateway) emit(ctx context.Context, event audit.Event) {
	if g.auditor == nil {
		return
	}
	if err := g.auditor.Emit(ctx, event); err != nil {
		g.logger.ErrorContext(ctx, "audit emit failed",
			"operation", event.Operation,
			"error", err,
		)
	}
}

func jsonEcho(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// redactTokens truncates token-bearing fields in a response echo so the
// audit trail never carries a usable credential. Applied to every response
// echo rather than per operation: a new token-returning endpoint must not be
// able to leak by omission.
func redactTokens(echo string) string {
	if echo == "" {
		return echo
	}
	var body map[string]any
	if err := json.Unmarshal([]byte(echo), &body); err != nil {
		return echo
	}
	redacted := false
	for _, field := range []string{"access_token", "refresh_token"} {
		if v, ok := body[field].(string); ok && v != "" {
			body[field] = audit.TruncateToken(v)
			redacted = true
		}
	}
	if !redacted {
		return echo
	}
	b, err := json.Marshal(body)
	if err != nil {
		return ""
	}
	return string(b)
}

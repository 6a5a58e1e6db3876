package audit

import "time"

// Event is one outbound-call record: what was sent, what came back (or what
// failed), and how long it took. Keep it transport-agnostic so stores and
// sinks can fan out.
//
// Events are diagnostic, not authoritative state: emission is best-effort and
// must never mask or alter the outcome of the call being logged.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
	Actor     string    `json:"actor,omitempty"`
	Target    string    `json:"target"`    // "provider" or "device-peer"
	Operation string    `json:"operation"` // e.g. "login", "afis_verify", "capture"
	Request   string    `json:"request,omitempty"`
	Response  string    `json:"response,omitempty"`
	Error     string    `json:"error,omitempty"`
	ErrorKind string    `json:"error_kind,omitempty"`
	LatencyMS int64     `json:"latency_ms"`
}

// Targets for outbound calls.
const (
	TargetProvider = "provider"
	TargetPeer     = "device-peer"
)

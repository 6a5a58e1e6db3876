package capture

import "time"

// Finger identifiers are symbolic codes selecting a digit, e.g.
// "right_thumb", "left_index". The orchestrator treats them as opaque keys.

// Result is the outcome of one capture attempt. Transient: returned to the
// caller, never persisted.
type Result struct {
	FingerID     string    `json:"finger_id"`
	Success      bool      `json:"success"`
	Image        []byte    `json:"image,omitempty"`
	Compressed   []byte    `json:"compressed_image,omitempty"`
	QualityScore float64   `json:"quality_score"`
	CapturedAt   time.Time `json:"captured_at"`
	Error        string    `json:"error,omitempty"`
}

// BatchOutcome aggregates independent per-item results. Derived per request,
// never stored. Success means at least one item succeeded.
type BatchOutcome struct {
	Captured []Result          `json:"captured_fingers"`
	Failed   []string          `json:"failed_fingers"`
	Errors   map[string]string `json:"errors,omitempty"`
	Elapsed  time.Duration     `json:"elapsed"`
	Success  bool              `json:"success"`
}

// QualityReport is the peer's scoring breakdown for an image. The
// orchestrator applies no local policy beyond exposing IsAcceptable.
type QualityReport struct {
	OverallScore    float64 `json:"overall_score"`
	Clarity         float64 `json:"clarity"`
	Contrast        float64 `json:"contrast"`
	Coverage        float64 `json:"coverage"`
	RidgeDefinition float64 `json:"ridge_definition"`
	IsAcceptable    bool    `json:"is_acceptable"`
}

// DeviceStatus is the peer's view of the physical sensor.
type DeviceStatus struct {
	Connected bool   `json:"connected"`
	Locked    bool   `json:"locked"`
	Model     string `json:"model,omitempty"`
	Message   string `json:"message,omitempty"`
}

// peer wire types

type peerCaptureRequest struct {
	FingerID         string  `json:"finger_id"`
	QualityThreshold float64 `json:"quality_threshold"`
	RetryBudget      int     `json:"retry_budget"`
}

type peerCaptureResponse struct {
	Success         bool    `json:"success"`
	Image           []byte  `json:"image"`
	CompressedImage []byte  `json:"compressed_image"`
	QualityScore    float64 `json:"quality_score"`
	Timestamp       string  `json:"timestamp"`
	Error           string  `json:"error"`
}

type peerBatchRequest struct {
	FingerIDs        []string `json:"finger_ids"`
	QualityThreshold float64  `json:"quality_threshold"`
	RetryBudget      int      `json:"retry_budget"`
}

type peerBatchResponse struct {
	Results       []peerItemResult `json:"results"`
	FailedFingers []string         `json:"failed_fingers"`
	ElapsedTime   string           `json:"elapsed_time"` // HH:MM:SS.fff
}

type peerItemResult struct {
	FingerID        string  `json:"finger_id"`
	Success         bool    `json:"success"`
	Image           []byte  `json:"image"`
	CompressedImage []byte  `json:"compressed_image"`
	QualityScore    float64 `json:"quality_score"`
	Timestamp       string  `json:"timestamp"`
	Error           string  `json:"error"`
}

type peerQualityRequest struct {
	Image []byte `json:"image"`
}

type peerCancelResponse struct {
	Cancelled bool `json:"cancelled"`
}

// Package capture drives one-or-many fingerprint captures against the
// device-control peer and assesses quality.
//
// Batch capture is strictly sequential: there is a single physical sensor,
// so concurrent capture is not meaningful. A failing item is recorded and the
// batch moves on; no failure is ever fatal to the process. The orchestrator
// holds no cross-request state beyond an in-flight marker per finger
// identifier, used to answer ActiveCaptures and to back cancellation.
package capture

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"nidbridge/internal/audit"
	"nidbridge/internal/capture/metrics"
	"nidbridge/pkg/requestcontext"
)

// Peer is the slice of the device-control contract the orchestrator uses.
type Peer interface {
	Health(ctx context.Context) error
	DeviceStatus(ctx context.Context) (*DeviceStatus, error)
	Connect(ctx context.Context) (*DeviceStatus, error)
	Disconnect(ctx context.Context) (*DeviceStatus, error)
	Lock(ctx context.Context) (*DeviceStatus, error)
	Capture(ctx context.Context, req peerCaptureRequest) (*peerCaptureResponse, error)
	CaptureBatch(ctx context.Context, req peerBatchRequest) (*peerBatchResponse, error)
	CancelCapture(ctx context.Context, fingerID string) (bool, error)
	AssessQuality(ctx context.Context, image []byte) (*QualityReport, error)
}

// Auditor receives one event per outbound peer call.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Orchestrator struct {
	peer    Peer
	logger  *slog.Logger
	auditor Auditor
	metrics *metrics.Metrics

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewOrchestrator(peer Peer, logger *slog.Logger, auditor Auditor, m *metrics.Metrics) *Orchestrator {
	return &Orchestrator{
		peer:     peer,
		logger:   logger,
		auditor:  auditor,
		metrics:  m,
		inFlight: make(map[string]struct{}),
	}
}

// CaptureOne issues a single capture call. retryBudget is forwarded to the
// peer, which owns retry semantics for one capture attempt; looping here as
// well would duplicate retry logic in two places. All failures come back as
// a typed Result, never as an error.
func (o *Orchestrator) CaptureOne(ctx context.Context, fingerID string, qualityThreshold float64, timeout time.Duration, retryBudget int) Result {
	o.markInFlight(fingerID)
	defer o.clearInFlight(fingerID)

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := o.peer.Capture(ctx, peerCaptureRequest{
		FingerID:         fingerID,
		QualityThreshold: qualityThreshold,
		RetryBudget:      retryBudget,
	})
	elapsed := time.Since(start)

	result := Result{FingerID: fingerID, CapturedAt: time.Now()}
	outcome := "ok"
	if err != nil {
		result.Error = err.Error()
		outcome = "peer_error"
	} else {
		result.Success = resp.Success
		result.Image = resp.Image
		result.Compressed = resp.CompressedImage
		result.QualityScore = resp.QualityScore
		result.Error = resp.Error
		if ts, parseErr := time.Parse(time.RFC3339, resp.Timestamp); parseErr == nil {
			result.CapturedAt = ts
		}
		if !resp.Success {
			outcome = "rejected"
		}
	}
	o.metrics.CapturesTotal.WithLabelValues(outcome).Inc()

	o.emit(ctx, audit.Event{
		Target:    audit.TargetPeer,
		Operation: "capture",
		Actor:     requestcontext.Username(ctx),
		RequestID: requestcontext.RequestID(ctx),
		Request:   fingerID,
		Response:  outcome,
		Error:     result.Error,
		LatencyMS: elapsed.Milliseconds(),
	})
	return result
}

// CaptureBatch captures each finger sequentially, accumulating successes and
// failures independently. A single item's failure is recorded and never
// aborts the remaining items. Success means at least one item succeeded;
// Elapsed is wall-clock across the whole sequence.
func (o *Orchestrator) CaptureBatch(ctx context.Context, fingerIDs []string, qualityThreshold float64, timeout time.Duration, retryBudget int) BatchOutcome {
	start := time.Now()
	outcome := BatchOutcome{
		Captured: make([]Result, 0, len(fingerIDs)),
		Failed:   make([]string, 0),
		Errors:   make(map[string]string),
	}

	for _, fingerID := range fingerIDs {
		result := o.CaptureOne(ctx, fingerID, qualityThreshold, timeout, retryBudget)
		if result.Success {
			outcome.Captured = append(outcome.Captured, result)
		} else {
			outcome.Failed = append(outcome.Failed, fingerID)
			if result.Error != "" {
				outcome.Errors[fingerID] = result.Error
			}
		}
	}

	outcome.Elapsed = time.Since(start)
	outcome.Success = len(outcome.Captured) > 0
	o.metrics.BatchDuration.Observe(outcome.Elapsed.Seconds())
	return outcome
}

// BatchOnPeer drives the peer's own batch endpoint and parses its DTO,
// including the HH:MM:SS.fff elapsed form. Used where the peer should own
// sequencing; the fail-closed parser leaves Elapsed zero on a malformed
// duration.
func (o *Orchestrator) BatchOnPeer(ctx context.Context, fingerIDs []string, qualityThreshold float64, retryBudget int) (BatchOutcome, error) {
	resp, err := o.peer.CaptureBatch(ctx, peerBatchRequest{
		FingerIDs:        fingerIDs,
		QualityThreshold: qualityThreshold,
		RetryBudget:      retryBudget,
	})
	if err != nil {
		return BatchOutcome{}, err
	}

	outcome := BatchOutcome{
		Captured: make([]Result, 0, len(resp.Results)),
		Failed:   resp.FailedFingers,
		Errors:   make(map[string]string),
	}
	if outcome.Failed == nil {
		outcome.Failed = []string{}
	}
	for _, item := range resp.Results {
		if !item.Success {
			if item.Error != "" {
				outcome.Errors[item.FingerID] = item.Error
			}
			continue
		}
		result := Result{
			FingerID:     item.FingerID,
			Success:      true,
			Image:        item.Image,
			Compressed:   item.CompressedImage,
			QualityScore: item.QualityScore,
		}
		if ts, parseErr := time.Parse(time.RFC3339, item.Timestamp); parseErr == nil {
			result.CapturedAt = ts
		}
		outcome.Captured = append(outcome.Captured, result)
	}
	if elapsed, ok := parseElapsed(resp.ElapsedTime); ok {
		outcome.Elapsed = elapsed
	}
	outcome.Success = len(outcome.Captured) > 0
	return outcome, nil
}

// Cancel clears the local in-flight marker and signals the peer best-effort.
// It returns whether an active capture was found; it does not guarantee the
// peer aborts.
func (o *Orchestrator) Cancel(ctx context.Context, fingerID string) bool {
	o.mu.Lock()
	_, active := o.inFlight[fingerID]
	delete(o.inFlight, fingerID)
	o.mu.Unlock()

	if _, err := o.peer.CancelCapture(ctx, fingerID); err != nil {
		o.logger.WarnContext(ctx, "peer cancel signal failed",
			"finger_id", fingerID,
			"error", err,
		)
	}
	return active
}

// ActiveCaptures lists finger identifiers with a capture in flight.
func (o *Orchestrator) ActiveCaptures() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, 0, len(o.inFlight))
	for fingerID := range o.inFlight {
		out = append(out, fingerID)
	}
	sort.Strings(out)
	return out
}

// Pass-through state queries. The orchestrator adds no state of its own.

func (o *Orchestrator) Health(ctx context.Context) error { return o.peer.Health(ctx) }

func (o *Orchestrator) DeviceStatus(ctx context.Context) (*DeviceStatus, error) {
	return o.peer.DeviceStatus(ctx)
}

func (o *Orchestrator) Connect(ctx context.Context) (*DeviceStatus, error) {
	return o.peer.Connect(ctx)
}

func (o *Orchestrator) Disconnect(ctx context.Context) (*DeviceStatus, error) {
	return o.peer.Disconnect(ctx)
}

func (o *Orchestrator) Lock(ctx context.Context) (*DeviceStatus, error) {
	return o.peer.Lock(ctx)
}

// AssessQuality delegates scoring to the peer and applies no local policy.
func (o *Orchestrator) AssessQuality(ctx context.Context, image []byte) (*QualityReport, error) {
	return o.peer.AssessQuality(ctx, image)
}

func (o *Orchestrator) markInFlight(fingerID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.inFlight[fingerID] = struct{}{}
}

func (o *Orchestrator) clearInFlight(fingerID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.inFlight, fingerID)
}

func (o *Orchestrator) emit(ctx context.Context, event audit.Event) {
	if o.auditor == nil {
		return
	}
	if err := o.auditor.Emit(ctx, event); err != nil {
		o.logger.ErrorContext(ctx, "audit emit failed",
			"operation", event.Operation,
			"error", err,
		)
	}
}

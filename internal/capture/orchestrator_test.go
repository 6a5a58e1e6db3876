package capture

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"nidbridge/internal/audit"
	"nidbridge/internal/capture/metrics"
	"nidbridge/internal/platform/config"
)

// promauto registers against the default registry, so the package shares one
// metrics value across tests.
var testMetrics = metrics.New()

// fakePeer scripts per-finger outcomes and records call order.
type fakePeer struct {
	captureOrder []string
	outcomes     map[string]peerCaptureResponse
	captureErr   map[string]error
	cancelled    []string
	cancelErr    error

	// when set, Capture blocks until released is closed
	started  chan string
	released chan struct{}

	batchResp *peerBatchResponse
}

func (f *fakePeer) Health(ctx context.Context) error { return nil }

func (f *fakePeer) DeviceStatus(ctx context.Context) (*DeviceStatus, error) {
	return &DeviceStatus{Connected: true}, nil
}

func (f *fakePeer) Connect(ctx context.Context) (*DeviceStatus, error) {
	return &DeviceStatus{Connected: true}, nil
}

func (f *fakePeer) Disconnect(ctx context.Context) (*DeviceStatus, error) {
	return &DeviceStatus{Connected: false}, nil
}

func (f *fakePeer) Lock(ctx context.Context) (*DeviceStatus, error) {
	return &DeviceStatus{Connected: true, Locked: true}, nil
}

func (f *fakePeer) Capture(ctx context.Context, req peerCaptureRequest) (*peerCaptureResponse, error) {
	f.captureOrder = append(f.captureOrder, req.FingerID)
	if f.started != nil {
		f.started <- req.FingerID
		<-f.released
	}
	if err, ok := f.captureErr[req.FingerID]; ok {
		return nil, err
	}
	resp, ok := f.outcomes[req.FingerID]
	if !ok {
		resp = peerCaptureResponse{Success: true, QualityScore: 80}
	}
	return &resp, nil
}

func (f *fakePeer) CaptureBatch(ctx context.Context, req peerBatchRequest) (*peerBatchResponse, error) {
	if f.batchResp == nil {
		return nil, errors.New("no batch scripted")
	}
	return f.batchResp, nil
}

func (f *fakePeer) CancelCapture(ctx context.Context, fingerID string) (bool, error) {
	f.cancelled = append(f.cancelled, fingerID)
	if f.cancelErr != nil {
		return false, f.cancelErr
	}
	return true, nil
}

func (f *fakePeer) AssessQuality(ctx context.Context, image []byte) (*QualityReport, error) {
	return &QualityReport{OverallScore: 91.5, IsAcceptable: true}, nil
}

func newTestOrchestrator(peer Peer) (*Orchestrator, *audit.MemoryStore) {
	store := audit.NewMemoryStore(100)
	logger := slog.New(slog.DiscardHandler)
	publisher := audit.NewPublisher(store)
	return NewOrchestrator(peer, logger, publisher, testMetrics), store
}

func TestCaptureOneSuccess(t *testing.T) {
	peer := &fakePeer{
		outcomes: map[string]peerCaptureResponse{
			"right_thumb": {
				Success:      true,
				Image:        []byte("img"),
				QualityScore: 87.5,
				Timestamp:    "2026-08-28T10:00:00Z",
			},
		},
	}
	orch, store := newTestOrchestrator(peer)

	result := orch.CaptureOne(context.Background(), "right_thumb", 60, time.Minute, 3)

	require.True(t, result.Success)
	require.Equal(t, "right_thumb", result.FingerID)
	require.InDelta(t, 87.5, result.QualityScore, 0.001)
	require.Equal(t, 2026, result.CapturedAt.Year())

	events, err := store.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	require.NotEmpty(t, events)
	require.Equal(t, audit.TargetPeer, events[0].Target)
	require.Equal(t, "capture", events[0].Operation)
}

func TestCaptureOnePeerError(t *testing.T) {
	peer := &fakePeer{
		captureErr: map[string]error{"left_index": errors.New("peer status 500: sensor fault")},
	}
	orch, _ := newTestOrchestrator(peer)

	result := orch.CaptureOne(context.Background(), "left_index", 60, time.Minute, 3)

	require.False(t, result.Success)
	require.Contains(t, result.Error, "sensor fault")
}

func TestCaptureOneForwardsRetryBudget(t *testing.T) {
	var gotBudget int
	var hits int
	var decodeErr error
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		var req peerCaptureRequest
		decodeErr = json.NewDecoder(r.Body).Decode(&req)
		gotBudget = req.RetryBudget
		json.NewEncoder(w).Encode(peerCaptureResponse{Success: true})
	}))
	defer server.Close()

	client := NewPeerClient(config.PeerConfig{BaseURL: server.URL, Timeout: 5 * time.Second})
	orch, _ := newTestOrchestrator(client)

	result := orch.CaptureOne(context.Background(), "right_thumb", 60, time.Minute, 5)

	require.True(t, result.Success)
	require.NoError(t, decodeErr)
	require.Equal(t, 5, gotBudget)
	require.Equal(t, 1, hits, "retries belong to the peer, not the orchestrator")
}

func TestCaptureBatchSequentialAndIndependent(t *testing.T) {
	peer := &fakePeer{
		outcomes: map[string]peerCaptureResponse{
			"right_thumb": {Success: false, Error: "finger removed too early"},
			"right_index": {Success: true, QualityScore: 72},
			"left_thumb":  {Success: true, QualityScore: 65},
		},
	}
	orch, _ := newTestOrchestrator(peer)

	outcome := orch.CaptureBatch(context.Background(), []string{"right_thumb", "right_index", "left_thumb"}, 60, time.Minute, 3)

	require.Equal(t, []string{"right_thumb", "right_index", "left_thumb"}, peer.captureOrder)
	require.True(t, outcome.Success)
	require.Len(t, outcome.Captured, 2)
	require.Equal(t, []string{"right_thumb"}, outcome.Failed)
	require.Equal(t, "finger removed too early", outcome.Errors["right_thumb"])
}

func TestCaptureBatchAllFail(t *testing.T) {
	peer := &fakePeer{
		captureErr: map[string]error{
			"right_thumb": errors.New("device not connected"),
			"right_index": errors.New("device not connected"),
		},
	}
	orch, _ := newTestOrchestrator(peer)

	outcome := orch.CaptureBatch(context.Background(), []string{"right_thumb", "right_index"}, 60, time.Minute, 3)

	require.False(t, outcome.Success)
	require.Empty(t, outcome.Captured)
	require.Equal(t, []string{"right_thumb", "right_index"}, outcome.Failed)
}

func TestInFlightMarkerLifecycle(t *testing.T) {
	peer := &fakePeer{
		started:  make(chan string),
		released: make(chan struct{}),
	}
	orch, _ := newTestOrchestrator(peer)

	done := make(chan Result)
	go func() {
		done <- orch.CaptureOne(context.Background(), "right_thumb", 60, time.Minute, 3)
	}()

	<-peer.started
	require.Equal(t, []string{"right_thumb"}, orch.ActiveCaptures())

	close(peer.released)
	<-done
	require.Empty(t, orch.ActiveCaptures())
}

func TestCancelActiveCapture(t *testing.T) {
	peer := &fakePeer{
		started:  make(chan string),
		released: make(chan struct{}),
	}
	orch, _ := newTestOrchestrator(peer)

	done := make(chan Result)
	go func() {
		done <- orch.CaptureOne(context.Background(), "left_index", 60, time.Minute, 3)
	}()
	<-peer.started

	found := orch.Cancel(context.Background(), "left_index")
	require.True(t, found)
	require.Equal(t, []string{"left_index"}, peer.cancelled)
	require.Empty(t, orch.ActiveCaptures())

	close(peer.released)
	<-done
}

func TestCancelIdleFinger(t *testing.T) {
	peer := &fakePeer{}
	orch, _ := newTestOrchestrator(peer)

	found := orch.Cancel(context.Background(), "right_thumb")

	require.False(t, found)
	// the peer is still signalled so a capture the marker missed gets stopped
	require.Equal(t, []string{"right_thumb"}, peer.cancelled)
}

func TestCancelSurvivesPeerFailure(t *testing.T) {
	peer := &fakePeer{
		started:   make(chan string),
		released:  make(chan struct{}),
		cancelErr: errors.New("connection refused"),
	}
	orch, _ := newTestOrchestrator(peer)

	done := make(chan Result)
	go func() {
		done <- orch.CaptureOne(context.Background(), "left_thumb", 60, time.Minute, 3)
	}()
	<-peer.started

	require.True(t, orch.Cancel(context.Background(), "left_thumb"))

	close(peer.released)
	<-done
}

func TestBatchOnPeerParsesElapsed(t *testing.T) {
	peer := &fakePeer{
		batchResp: &peerBatchResponse{
			Results: []peerItemResult{
				{FingerID: "right_thumb", Success: true, QualityScore: 81, Timestamp: "2026-08-28T10:00:00Z"},
				{FingerID: "right_index", Success: false, Error: "quality below threshold"},
			},
			FailedFingers: []string{"right_index"},
			ElapsedTime:   "00:00:42.250",
		},
	}
	orch, _ := newTestOrchestrator(peer)

	outcome, err := orch.BatchOnPeer(context.Background(), []string{"right_thumb", "right_index"}, 60, 3)

	require.NoError(t, err)
	require.True(t, outcome.Success)
	require.Len(t, outcome.Captured, 1)
	require.Equal(t, []string{"right_index"}, outcome.Failed)
	require.Equal(t, "quality below threshold", outcome.Errors["right_index"])
	require.Equal(t, 42*time.Second+250*time.Millisecond, outcome.Elapsed)
}

func TestBatchOnPeerMalformedElapsedFailsClosed(t *testing.T) {
	peer := &fakePeer{
		batchResp: &peerBatchResponse{
			Results:     []peerItemResult{{FingerID: "right_thumb", Success: true}},
			ElapsedTime: "42.25s",
		},
	}
	orch, _ := newTestOrchestrator(peer)

	outcome, err := orch.BatchOnPeer(context.Background(), []string{"right_thumb"}, 60, 3)

	require.NoError(t, err)
	require.Zero(t, outcome.Elapsed)
}

func TestAssessQualityPassthrough(t *testing.T) {
	orch, _ := newTestOrchestrator(&fakePeer{})

	report, err := orch.AssessQuality(context.Background(), []byte("img"))

	require.NoError(t, err)
	require.True(t, report.IsAcceptable)
	require.InDelta(t, 91.5, report.OverallScore, 0.001)
}

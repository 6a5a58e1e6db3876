package capture

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"nidbridge/internal/platform/config"
)

// PeerClient speaks the device-control service's HTTP contract. It is a thin
// wire adapter; policy (in-flight tracking, batch sequencing) lives in the
// orchestrator.
type PeerClient struct {
	baseURL string
	client  *http.Client
}

func NewPeerClient(cfg config.PeerConfig) *PeerClient {
	return &PeerClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

func (p *PeerClient) Health(ctx context.Context) error {
	return p.doJSON(ctx, http.MethodGet, "/health", nil, nil)
}

func (p *PeerClient) DeviceStatus(ctx context.Context) (*DeviceStatus, error) {
	var status DeviceStatus
	if err := p.doJSON(ctx, http.MethodGet, "/device/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (p *PeerClient) Connect(ctx context.Context) (*DeviceStatus, error) {
	var status DeviceStatus
	if err := p.doJSON(ctx, http.MethodPost, "/device/connect", struct{}{}, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (p *PeerClient) Disconnect(ctx context.Context) (*DeviceStatus, error) {
	var status DeviceStatus
	if err := p.doJSON(ctx, http.MethodPost, "/device/disconnect", struct{}{}, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (p *PeerClient) Lock(ctx context.Context) (*DeviceStatus, error) {
	var status DeviceStatus
	if err := p.doJSON(ctx, http.MethodPost, "/device/lock", struct{}{}, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (p *PeerClient) Capture(ctx context.Context, req peerCaptureRequest) (*peerCaptureResponse, error) {
	var resp peerCaptureResponse
	if err := p.doJSON(ctx, http.MethodPost, "/capture", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (p *PeerClient) CaptureBatch(ctx context.Context, req peerBatchRequest) (*peerBatchResponse, error) {
	var resp peerBatchResponse
	if err := p.doJSON(ctx, http.MethodPost, "/capture/batch", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (p *PeerClient) CancelCapture(ctx context.Context, fingerID string) (bool, error) {
	var resp peerCancelResponse
	if err := p.doJSON(ctx, http.MethodPost, "/capture/"+fingerID+"/cancel", struct{}{}, &resp); err != nil {
		return false, err
	}
	return resp.Cancelled, nil
}

func (p *PeerClient) AssessQuality(ctx context.Context, image []byte) (*QualityReport, error) {
	var report QualityReport
	if err := p.doJSON(ctx, http.MethodPost, "/quality/assess", peerQualityRequest{Image: image}, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (p *PeerClient) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("peer status %d: %s", resp.StatusCode, raw)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode peer response: %w", err)
	}
	return nil
}

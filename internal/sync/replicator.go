// Package sync offers appended session records to a remote endpoint for
// best-effort replication. Failures are logged and never block or roll
// back the local append; there is no retry.
package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"pomofriends/internal/logger"
	"pomofriends/internal/storage"
)

type recordPayload struct {
	ID              string `json:"id"`
	Timestamp       int64  `json:"timestamp"`
	Type            string `json:"type"`
	DurationMinutes int    `json:"duration_minutes"`
	Completed       bool   `json:"completed"`
}

// HTTPReplicator posts each record as JSON to a configured endpoint.
type HTTPReplicator struct {
	endpoint string
	client   *http.Client
}

func NewHTTPReplicator(endpoint string) *HTTPReplicator {
	return &HTTPReplicator{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// Offer replicates a single record. Best effort only.
func (r *HTTPReplicator) Offer(ctx context.Context, rec storage.SessionRecord) {
	payload := recordPayload{
		ID:              rec.ID,
		Timestamp:       rec.Timestamp.UnixMilli(),
		Type:            rec.Kind,
		DurationMinutes: rec.DurationMinutes,
		Completed:       rec.Completed,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		logger.Logger.Warn("sync: encode record", "id", rec.ID, "err", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		logger.Logger.Warn("sync: build request", "id", rec.ID, "err", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		logger.Logger.Warn("sync: offer failed", "id", rec.ID, "err", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Logger.Warn("sync: remote rejected record", "id", rec.ID, "status", resp.StatusCode)
	}
}

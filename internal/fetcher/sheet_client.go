package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"gatescore-service/internal/models"
)

// SheetClient fetches published response sheets over HTTP. The sheet
// endpoint serves a JSON array of per-question records.
type SheetClient struct {
	httpClient *http.Client
}

func NewSheetClient() *SheetClient {
	return &SheetClient{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *SheetClient) Fetch(ctx context.Context, sourceRef string) ([]models.ResponseRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceRef, nil)
	if err != nil {
		return nil, &FetchError{SourceRef: sourceRef, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{SourceRef: sourceRef, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{SourceRef: sourceRef, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{SourceRef: sourceRef, Err: err}
	}

	var records []models.ResponseRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, ErrInvalidResponseFormat
	}
	if err := ValidateRecords(records); err != nil {
		return nil, err
	}
	return records, nil
}

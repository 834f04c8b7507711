package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// trackerClient is a thin HTTP client of the download-tracker service.
type trackerClient struct {
	baseURL string
	client  *http.Client
}

func newTrackerClient(baseURL string) *trackerClient {
	return &trackerClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{},
	}
}

// TrackDownload reports one download of the named content.
func (c *trackerClient) TrackDownload(ctx context.Context, name, source string) error {
	body, err := json.Marshal(map[string]string{"item_name": name, "source": source})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/track/download", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tracker responded with status %d", resp.StatusCode)
	}
	return nil
}

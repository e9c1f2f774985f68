package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rizsotto/citrace/internal/execution"
)

// Client is the preload/wrapper side of the collector RPC, grounded on the
// teacher's MuxClient.doRequest helper.
type Client struct {
	destination string
	http        *http.Client
}

// NewClient builds a client for the collector listening at destination (a
// URI, as carried in INTERCEPT_REPORT_DESTINATION).
func NewClient(destination string) *Client {
	return &Client{
		destination: destination,
		http:        &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) doRequest(ctx context.Context, path string, body, result any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("collector client: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimSuffix(c.destination, "/")+path, strings.NewReader(string(data)))
	if err != nil {
		return fmt.Errorf("collector client: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("collector client: collector unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&errResp) == nil && errResp.Error != "" {
			return fmt.Errorf("collector client: %s", errResp.Error)
		}
		return fmt.Errorf("collector client: HTTP %d", resp.StatusCode)
	}
	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("collector client: decode response: %w", err)
		}
	}
	return nil
}

// Resolve calls the Resolve RPC; it is idempotent and side-effect-free on
// the server side, so it is safe to retry.
func (c *Client) Resolve(ctx context.Context, exec execution.Execution) (execution.Execution, error) {
	var resolved execution.Execution
	if err := c.doRequest(ctx, "/resolve", exec, &resolved); err != nil {
		return execution.Execution{}, err
	}
	return resolved, nil
}

// Report calls the Report RPC. It is one-way in intent but implemented
// synchronously for ordering, per §5.
func (c *Client) Report(ctx context.Context, event execution.Event) error {
	return c.doRequest(ctx, "/report", event, nil)
}

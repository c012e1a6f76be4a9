package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// requestTimeout covers issuance, which waits for the ledger commit to be
// mined server-side.
const requestTimeout = 2 * time.Minute

// postJSON sends body to the server and decodes the JSON response into out.
// Non-2xx responses are returned as an error carrying the server's message.
func postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("could not encode request: %w", err)
	}

	url := strings.TrimSuffix(serverURL, "/") + path

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("could not build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("could not read response from %s: %w", url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var serverErr struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(responseBody, &serverErr); err == nil && serverErr.Message != "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, serverErr.Message)
		}
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, responseBody)
	}

	if err := json.Unmarshal(responseBody, out); err != nil {
		return fmt.Errorf("could not decode response from %s: %w", url, err)
	}

	return nil
}

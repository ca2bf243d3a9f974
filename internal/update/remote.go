package update

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/conn-castle/upgrade-ai/internal/messages"
)

// UserAgent identifies version checks to the remote host.
const UserAgent = "upgrade-ai"

const maxVersionBytes = 1 << 20

var defaultHTTPClient = &http.Client{}

// HTTPSource reads the published version record from a fixed URL.
type HTTPSource struct {
	URL     string
	Timeout time.Duration
	// Client defaults to a shared client without its own timeout; Timeout bounds each call.
	Client *http.Client
}

// Latest fetches the remote version record and returns its version field.
// Transport errors, timeouts, non-200 statuses, malformed JSON, and a missing
// version all return an error.
func (s HTTPSource) Latest(ctx context.Context) (string, error) {
	if strings.TrimSpace(s.URL) == "" {
		return "", errors.New(messages.UpdateURLRequired)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	client := s.Client
	if client == nil {
		client = defaultHTTPClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return "", fmt.Errorf(messages.UpdateCreateRequestErrFmt, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf(messages.UpdateFetchVersionErrFmt, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf(messages.UpdateFetchVersionStatusFmt, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxVersionBytes))
	if err != nil {
		return "", fmt.Errorf(messages.UpdateFetchVersionErrFmt, err)
	}
	version, ok, err := parseVersionRecord(data)
	if err != nil {
		return "", fmt.Errorf(messages.UpdateDecodeVersionErrFmt, err)
	}
	if !ok {
		return "", errors.New(messages.UpdateVersionMissing)
	}
	return version, nil
}

// parseVersionRecord extracts a non-empty string "version" field from a JSON object.
// ok is false when the object has no usable version; err is set for invalid JSON.
func parseVersionRecord(data []byte) (string, bool, error) {
	var record map[string]json.RawMessage
	if err := json.Unmarshal(data, &record); err != nil {
		return "", false, err
	}
	raw, present := record["version"]
	if !present {
		return "", false, nil
	}
	var version string
	if err := json.Unmarshal(raw, &version); err != nil {
		return "", false, nil //nolint:nilerr // A non-string version is treated as absent.
	}
	version = strings.TrimSpace(version)
	if version == "" {
		return "", false, nil
	}
	return version, true, nil
}

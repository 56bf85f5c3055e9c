package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/etna-dt/twinhub/core/logger"
	"github.com/etna-dt/twinhub/core/model"
	infralogger "github.com/etna-dt/twinhub/infra/logger"
)

// DefaultTimeout bounds a single notify request.
const DefaultTimeout = 10 * time.Second

// HTTPClient delivers commands to devices over HTTP POST.
type HTTPClient struct {
	client *http.Client
	log    logger.Logger
}

// NewHTTPClient creates a client with the given per-request timeout. A zero or
// negative timeout falls back to DefaultTimeout.
func NewHTTPClient(timeout time.Duration, log logger.Logger) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = infralogger.NopLogger{}
	}
	return &HTTPClient{
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

// NotifyURL builds the notify endpoint for a device base URL.
func NotifyURL(base string) string {
	return strings.TrimRight(base, "/") + "/notify"
}

// notifyPayload is the wire format of a command. Sensors is always present as
// a list; devices interpret an empty list as "all sensors".
type notifyPayload struct {
	Command string   `json:"command"`
	Sensors []string `json:"sensors"`
}

// Send posts the command to the device notify endpoint. Any HTTP response,
// whatever its status code, is a success outcome; only transport-level
// problems and undecodable JSON bodies produce a failure.
func (c *HTTPClient) Send(ctx context.Context, device model.Device, cmd model.Command) model.DeviceOutcome {
	url := NotifyURL(device.URL)

	sensors := cmd.Sensors
	if sensors == nil {
		sensors = []string{}
	}
	body, err := json.Marshal(notifyPayload{Command: cmd.Name, Sensors: sensors})
	if err != nil {
		c.log.Errorf("notify %s failed: %v", url, err)
		return model.NewFailure("encode payload: " + err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		c.log.Errorf("notify %s failed: %v", url, err)
		return model.NewFailure("build request: " + err.Error())
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Errorf("notify %s failed: %v", url, err)
		return model.NewFailure(err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Errorf("notify %s failed reading body: %v", url, err)
		return model.NewFailure("read response: " + err.Error())
	}

	outcome := decodeResponse(resp.StatusCode, resp.Header.Get("Content-Type"), raw)
	if outcome.Succeeded() {
		c.log.Infof("notify %s responded %d", url, resp.StatusCode)
	} else {
		c.log.Errorf("notify %s failed: %s", url, outcome.Error)
	}
	return outcome
}

// decodeResponse normalizes a received HTTP response. A JSON content type with
// an unparseable body counts as a failure; any other body is kept as raw text.
func decodeResponse(code int, contentType string, raw []byte) model.DeviceOutcome {
	if strings.Contains(contentType, "application/json") {
		var decoded any
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return model.NewFailure("malformed JSON response: " + err.Error())
		}
		return model.NewSuccess(code, decoded)
	}
	return model.NewSuccess(code, string(raw))
}

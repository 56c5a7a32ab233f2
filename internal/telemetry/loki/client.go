// Package loki ships workspace events consumed from Kafka to Grafana Loki.
package loki

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Job is the job label on every stream this package writes.
const Job = "wcp"

const pushPath = "/loki/api/v1/push"

var unsafeLabelChars = regexp.MustCompile(`[^a-zA-Z0-9_\-:]`)

// Entry is one log line and the stream labels it is filed under.
type Entry struct {
	Time   time.Time
	Line   string
	Labels map[string]string
}

type pushBody struct {
	Streams []pushStream `json:"streams"`
}

// Values holds [unix-nanos, line] pairs.
type pushStream struct {
	Stream map[string]string `json:"stream"`
	Values [][]string        `json:"values"`
}

// Client pushes entries to one Loki instance.
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient returns a Client for the Loki at baseURL, e.g. http://localhost:3100.
// A nil httpClient uses http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("loki: base URL is empty")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{endpoint: baseURL + pushPath, http: httpClient}, nil
}

// Push writes e as a single-entry stream. Label values are sanitized and empty ones dropped.
func (c *Client) Push(ctx context.Context, e Entry) error {
	labels := map[string]string{"job": Job}
	for k, v := range e.Labels {
		if v = unsafeLabelChars.ReplaceAllString(strings.TrimSpace(v), "_"); v != "" {
			labels[k] = v
		}
	}
	payload, err := json.Marshal(pushBody{Streams: []pushStream{{
		Stream: labels,
		Values: [][]string{{strconv.FormatInt(e.Time.UnixNano(), 10), e.Line}},
	}}})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("loki: push returned %s", resp.Status)
	}
	return nil
}

// PushWorkspaceEvent files a raw workspace event under its workspace, type and source labels,
// stamped with its createdAt. A value that is not an event is pushed as-is at the current time.
func (c *Client) PushWorkspaceEvent(ctx context.Context, raw []byte) error {
	return c.Push(ctx, workspaceEventEntry(raw, time.Now().UTC()))
}

func workspaceEventEntry(raw []byte, now time.Time) Entry {
	e := Entry{Time: now, Line: string(raw)}
	var ev struct {
		WorkspaceID string `json:"workspaceId"`
		EventType   string `json:"eventType"`
		Source      string `json:"source"`
		CreatedAt   string `json:"createdAt"`
	}
	if json.Unmarshal(raw, &ev) != nil {
		return e
	}
	e.Labels = map[string]string{
		"workspace_id": ev.WorkspaceID,
		"event_type":   ev.EventType,
		"source":       ev.Source,
	}
	// RFC3339Nano parsing also accepts timestamps without fractional seconds.
	if t, err := time.Parse(time.RFC3339Nano, ev.CreatedAt); err == nil {
		e.Time = t
	}
	return e
}

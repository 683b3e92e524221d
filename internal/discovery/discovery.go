// Package discovery registers a service instance with a consul-style agent
// so the gateway can resolve it. Registration is best-effort: a missing
// endpoint disables it, a failing one is logged and the service keeps
// serving.
package discovery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Registration struct {
	ID      string `json:"ID"`
	Name    string `json:"Name"`
	Address string `json:"Address"`
	Port    int    `json:"Port"`
	Check   Check  `json:"Check"`
}

type Check struct {
	HTTP     string `json:"HTTP"`
	Interval string `json:"Interval"`
	Timeout  string `json:"Timeout"`
}

type Client struct {
	endpoint   string
	httpClient *http.Client
}

func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   5 * time.Second,
		},
	}
}

// Enabled reports whether a registry endpoint is configured.
func (c *Client) Enabled() bool { return c != nil && c.endpoint != "" }

func (c *Client) Register(ctx context.Context, reg Registration) error {
	if !c.Enabled() {
		return nil
	}
	body, err := json.Marshal(reg)
	if err != nil {
		return fmt.Errorf("failed marshalling registration with error=%w", err)
	}
	url := fmt.Sprintf("%s/v1/agent/service/register", c.endpoint)
	return c.put(ctx, url, bytes.NewReader(body))
}

func (c *Client) Deregister(ctx context.Context, serviceID string) error {
	if !c.Enabled() {
		return nil
	}
	url := fmt.Sprintf("%s/v1/agent/service/deregister/%s", c.endpoint, serviceID)
	return c.put(ctx, url, nil)
}

func (c *Client) put(ctx context.Context, url string, body *bytes.Reader) error {
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, http.MethodPut, url, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, http.MethodPut, url, nil)
	}
	if err != nil {
		return fmt.Errorf("failed creating registry request with error=%w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed calling registry with error=%w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("registry returned status=%d", res.StatusCode)
	}
	return nil
}

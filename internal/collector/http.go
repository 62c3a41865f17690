package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"StockLens/internal/model"
)

// newHTTPClient creates a client with optional proxy support.
func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{Proxy: http.ProxyFromEnvironment}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}

// jwget performs an HTTP GET request and unmarshals the JSON response body into data.
func jwget(ctx context.Context, client *http.Client, addr string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("GET %s%s: %w", req.URL.Host, req.URL.Path, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("cannot http GET %s%s: %s", req.URL.Host, req.URL.Path, resp.Status)
	}
	return json.Unmarshal(buf.Bytes(), data)
}

// dedupeDays keeps the last bar of every calendar day so that dates strictly
// increase. Bars must already be sorted.
func dedupeDays(s *model.PriceSeries) *model.PriceSeries {
	if len(s.Bars) < 2 {
		return s
	}
	out := s.Bars[:1]
	for _, b := range s.Bars[1:] {
		last := &out[len(out)-1]
		if sameDay(last.Time, b.Time) {
			*last = b
			continue
		}
		out = append(out, b)
	}
	s.Bars = out
	return s
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

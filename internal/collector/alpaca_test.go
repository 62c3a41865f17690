package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newAlpacaServer(t *testing.T) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("APCA-API-KEY-ID") != "key" || r.Header.Get("APCA-API-SECRET-KEY") != "secret" {
			t.Errorf("expected key pair headers, got %v", r.Header)
		}
		symbol := r.URL.Query().Get("symbols")
		switch r.URL.Path {
		case "/v2/stocks/bars":
			if r.URL.Query().Get("adjustment") != "all" {
				t.Errorf("expected adjusted bars, got %q", r.URL.Query().Get("adjustment"))
			}
			switch symbol {
			case "AAPL":
				w.Write([]byte(`{"bars":{"AAPL":[
					{"t":"2024-01-02T05:00:00Z","o":187.15,"h":188.44,"l":183.89,"c":185.64,"v":82488700},
					{"t":"2024-01-03T05:00:00Z","o":184.22,"h":185.88,"l":183.43,"c":0,"v":0},
					{"t":"2024-01-04T05:00:00Z","o":182.15,"h":183.09,"l":180.88,"c":181.91,"v":71983600}
				]},"next_page_token":null}`))
			case "HALT":
				w.Write([]byte(`{"bars":{"HALT":[{"t":"2024-01-02T05:00:00Z","o":1,"h":1,"l":1,"c":0,"v":0}]},"next_page_token":null}`))
			default:
				w.Write([]byte(`{"bars":{},"next_page_token":null}`))
			}
		case "/v2/stocks/trades/latest":
			switch symbol {
			case "AAPL":
				w.Write([]byte(`{"trades":{"AAPL":{"t":"2024-01-04T20:59:59Z","p":181.91,"s":100}}}`))
			case "$$$":
				w.WriteHeader(http.StatusUnprocessableEntity)
				w.Write([]byte(`{"code":42210000,"message":"invalid symbol: $$$"}`))
			default:
				w.Write([]byte(`{"trades":{}}`))
			}
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestAlpacaFetcher_FetchHistory(t *testing.T) {
	srv := newAlpacaServer(t)
	defer srv.Close()

	f := NewAlpacaFetcher(srv.URL, "key", "secret", "")
	ctx := context.Background()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	series, err := f.FetchHistory(ctx, "AAPL", start, end)
	if err != nil {
		t.Fatalf("FetchHistory: %v", err)
	}
	if series.Len() != 2 {
		t.Fatalf("expected the zero-close bar to be skipped, got %d bars", series.Len())
	}
	first := series.Bars[0]
	if want := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC); !first.Time.Equal(want) {
		t.Errorf("expected bar dated %s, got %s", want, first.Time)
	}
	if first.Open != 187.15 || first.High != 188.44 || first.Low != 183.89 || first.Close != 185.64 {
		t.Errorf("unexpected bar prices: %+v", first)
	}
	if first.AdjClose != first.Close || first.Volume != 82488700 {
		t.Errorf("expected adjusted close equal to close and volume 82488700, got %+v", first)
	}

	if _, err := f.FetchHistory(ctx, "HALT", start, end); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData when every bar is filtered out, got %v", err)
	}
	if _, err := f.FetchHistory(ctx, "NONE", start, end); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData for an empty answer, got %v", err)
	}
}

func TestAlpacaFetcher_FetchProfile(t *testing.T) {
	srv := newAlpacaServer(t)
	defer srv.Close()

	f := NewAlpacaFetcher(srv.URL, "key", "secret", "")
	ctx := context.Background()

	p, err := f.FetchProfile(ctx, "AAPL")
	if err != nil {
		t.Fatalf("FetchProfile: %v", err)
	}
	if p.Symbol != "AAPL" || p.Currency != "USD" || p.CurrentPrice == nil || *p.CurrentPrice != 181.91 {
		t.Errorf("unexpected profile: %+v", p)
	}

	if _, err := f.FetchProfile(ctx, "NONE"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for a symbol without trades, got %v", err)
	}
	if _, err := f.FetchProfile(ctx, "$$$"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for an invalid symbol, got %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := f.FetchProfile(cancelled, "AAPL"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

package dashboard

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"StockLens/internal/collector"
	"StockLens/internal/export"
	"StockLens/internal/recorder"
)

const dateLayout = "2006-01-02"

// query is a parsed lookup request. End is exclusive.
type query struct {
	Ticker string
	Start  time.Time
	End    time.Time
}

// parseQuery reads ticker, start and end. Missing dates take the defaults;
// malformed dates are an error.
func (s *Server) parseQuery(r *http.Request) (query, error) {
	start, end := collector.DefaultRange(s.Now())
	q := query{
		Ticker: collector.NormalizeSymbol(r.URL.Query().Get("ticker")),
		Start:  start,
		End:    end,
	}
	if v := r.URL.Query().Get("start"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return q, fmt.Errorf("invalid start date %q", v)
		}
		q.Start = t
	}
	if v := r.URL.Query().Get("end"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return q, fmt.Errorf("invalid end date %q", v)
		}
		q.End = t
	}
	return q, nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	q, _ := s.parseQuery(r)
	page := s.newPage(q)
	page.Info = "Enter a ticker symbol to see its metrics."
	s.render(w, http.StatusOK, page)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	q, err := s.parseQuery(r)
	page := s.newPage(q)
	switch {
	case err != nil:
		page.Error = err.Error()
		s.render(w, http.StatusBadRequest, page)
		return
	case q.Ticker == "":
		page.Info = "Enter a ticker symbol to see its metrics."
		s.render(w, http.StatusOK, page)
		return
	}

	report, err := s.Collector.Run(r.Context(), "dashboard", q.Ticker, q.Start, q.End)
	if err != nil {
		log.Printf("[WARN] dashboard lookup %s: %v", q.Ticker, err)
		page.Error = collector.UserMessage(err)
		s.render(w, statusFor(err), page)
		return
	}
	page.fill(report)
	s.render(w, http.StatusOK, page)
}

func (s *Server) handleReportCSV(w http.ResponseWriter, r *http.Request) {
	q, err := s.parseQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if q.Ticker == "" {
		http.Error(w, "ticker is required", http.StatusBadRequest)
		return
	}
	if !q.Start.Before(q.End) {
		http.Error(w, collector.UserMessage(collector.ErrInvalidRange), http.StatusBadRequest)
		return
	}
	series, err := s.Collector.Fetcher.FetchHistory(r.Context(), q.Ticker, q.Start, q.End)
	if err != nil {
		log.Printf("[WARN] csv export %s: %v", q.Ticker, err)
		http.Error(w, collector.UserMessage(err), statusFor(err))
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, series); err != nil {
		log.Printf("[ERROR] write csv %s: %v", q.Ticker, err)
		http.Error(w, "could not build the CSV file", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(q.Ticker)))
	w.Write(buf.Bytes())
}

func (s *Server) handleAPIReport(w http.ResponseWriter, r *http.Request) {
	q, err := s.parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if q.Ticker == "" {
		writeError(w, http.StatusBadRequest, "ticker is required")
		return
	}
	report, err := s.Collector.Run(r.Context(), "api", q.Ticker, q.Start, q.End)
	if err != nil {
		writeError(w, statusFor(err), collector.UserMessage(err))
		return
	}
	writeJSON(w, report)
}

func (s *Server) handleAPILookups(w http.ResponseWriter, r *http.Request) {
	lookups, err := s.Recorder.RecentLookups(recentLimit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if lookups == nil {
		lookups = []recorder.LookupEvent{}
	}
	writeJSON(w, lookups)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "ok", "provider": s.Collector.Fetcher.Name()})
}

// render loads the recent lookups once per page, after any lookup of this
// request has been recorded.
func (s *Server) render(w http.ResponseWriter, status int, page *pageData) {
	page.Recent = s.recent()
	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, page); err != nil {
		log.Printf("[ERROR] render page: %v", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, collector.ErrNotFound), errors.Is(err, collector.ErrNoData):
		return http.StatusNotFound
	case errors.Is(err, collector.ErrInvalidRange):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

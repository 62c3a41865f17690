package scheduler

import (
	"context"
	"fmt"
	"html"
	"log"
	"strconv"
	"strings"
	"time"

	"StockLens/internal/collector"
	"StockLens/internal/notifier"

	"github.com/robfig/cron/v3"
)

// Sender delivers a formatted message.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages the cron tasks and answers bot commands.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Notifier  Sender // nil when Telegram is not configured
	Watchlist []string
	Ctx       context.Context
	Now       func() time.Time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, tn Sender, watchlist []string) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Notifier:  tn,
		Watchlist: watchlist,
		Ctx:       ctx,
		Now:       time.Now,
	}
}

// RegisterAll registers the watchlist warm-up task.
func (s *Scheduler) RegisterAll(warmCron string) error {
	if _, err := s.Cron.AddFunc(warmCron, s.warmTask); err != nil {
		return fmt.Errorf("register warm task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunWarmNow executes the warm-up task immediately.
func (s *Scheduler) RunWarmNow() {
	s.warmTask()
}

// DefaultRange returns the range the dashboard opens with, so a warm-up
// fills the cache entries the dashboard reads.
func (s *Scheduler) DefaultRange() (time.Time, time.Time) {
	return collector.DefaultRange(s.Now())
}

// warmTask computes every watchlist symbol over the default range, which
// fills the fetch cache, and sends the digest.
func (s *Scheduler) warmTask() {
	if len(s.Watchlist) == 0 {
		return
	}
	log.Printf("[INFO] running warm task for %d symbols", len(s.Watchlist))
	start, end := s.DefaultRange()

	entries := make([]notifier.DigestEntry, 0, len(s.Watchlist))
	for _, symbol := range s.Watchlist {
		report, err := s.Collector.Run(s.Ctx, "cron", symbol, start, end)
		if err != nil {
			log.Printf("[ERROR] warm %s: %v", symbol, err)
		}
		entries = append(entries, notifier.DigestEntry{Symbol: collector.NormalizeSymbol(symbol), Report: report, Err: err})
		if s.Ctx.Err() != nil {
			return
		}
	}
	s.trySend(notifier.FormatDigest(entries, s.Now()))
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.FormatHelp()
	}
	// "/metrics@MyBot AAPL" in group chats
	name, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")

	switch name {
	case "/metrics":
		return s.metricsCommand(ctx, fields[1:])
	case "/watchlist":
		if len(s.Watchlist) == 0 {
			return "The watchlist is empty."
		}
		return "Watchlist: " + strings.Join(s.Watchlist, ", ")
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) metricsCommand(ctx context.Context, args []string) string {
	if len(args) == 0 {
		return "Usage: /metrics TICKER [START] [END]"
	}
	start, end := s.DefaultRange()
	var err error
	if len(args) > 1 {
		if start, err = time.Parse("2006-01-02", args[1]); err != nil {
			return fmt.Sprintf("Invalid start date %s, expected YYYY-MM-DD.", html.EscapeString(strconv.Quote(args[1])))
		}
	}
	if len(args) > 2 {
		if end, err = time.Parse("2006-01-02", args[2]); err != nil {
			return fmt.Sprintf("Invalid end date %s, expected YYYY-MM-DD.", html.EscapeString(strconv.Quote(args[2])))
		}
	}
	report, err := s.Collector.Run(ctx, "telegram", args[0], start, end)
	if err != nil {
		log.Printf("[WARN] /metrics %s: %v", args[0], err)
		// replies are sent with parse_mode HTML
		return html.EscapeString(collector.UserMessage(err))
	}
	return notifier.FormatReport(report)
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}

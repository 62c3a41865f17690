package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"StockLens/internal/dashboard"
	"StockLens/internal/notifier"
	"StockLens/internal/scheduler"

	"github.com/google/subcommands"
)

type serveCmd struct {
	warmOnStart bool
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "run the dashboard, scheduler and Telegram bot" }
func (*serveCmd) Usage() string {
	return `stocklens serve [-warm]

  Serves the dashboard on server.addr, runs the watchlist warm-up cron and,
  when Telegram is configured, answers bot commands.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.warmOnStart, "warm", os.Getenv("RUN_ON_START") == "true", "Run the watchlist warm-up once at startup")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	log.Println("[INFO] StockLens starting...")

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		log.Printf("[FATAL] %v", err)
		return subcommands.ExitFailure
	}
	defer a.Close()
	cfg := a.Config

	var tn *notifier.TelegramNotifier
	var sender scheduler.Sender
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		sender = tn
	}

	sched := scheduler.NewScheduler(ctx, a.Collector, sender, cfg.Schedule.Watchlist)
	if err := sched.RegisterAll(cfg.Schedule.WarmCron); err != nil {
		log.Printf("[FATAL] register cron tasks: %v", err)
		return subcommands.ExitFailure
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}
	if c.warmOnStart {
		log.Println("[INFO] warm-up on start enabled")
		go sched.RunWarmNow()
	}

	srv, err := dashboard.NewServer(a.Collector, a.Recorder)
	if err != nil {
		log.Printf("[FATAL] init dashboard: %v", err)
		return subcommands.ExitFailure
	}
	log.Println("[INFO] StockLens is running. Press Ctrl+C to stop.")
	if err := srv.ListenAndServe(ctx, cfg.Server.Addr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	log.Println("[INFO] StockLens stopped")
	return subcommands.ExitSuccess
}

package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"OrbWatch/internal/collector"
	"OrbWatch/internal/config"
	"OrbWatch/internal/display"
	"OrbWatch/internal/notifier"
	"OrbWatch/internal/recorder"
	"OrbWatch/internal/scheduler"
	"OrbWatch/internal/server"
	"OrbWatch/internal/view"
	"OrbWatch/internal/view/pngchart"
	"OrbWatch/internal/view/terminal"
	"OrbWatch/internal/view/window"
)

func main() {
	cfgFlag := flag.String("config", "", "path to config file (default $CONFIG_PATH or configs/config.yaml)")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	if *cfgFlag != "" {
		cfgPath = *cfgFlag
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}

	// The terminal view owns the screen; keep log lines out of it.
	if cfg.Display.View == config.ViewTerminal {
		f, err := os.OpenFile(cfg.Display.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Fatalf("[FATAL] open log file: %v", err)
		}
		defer f.Close()
		log.SetOutput(f)
	}
	log.Println("[INFO] OrbWatch starting...")

	// Init fetcher
	var fetcher collector.Fetcher
	switch cfg.DataSource {
	case config.SourceMock:
		fetcher = &collector.MockFetcher{}
	default:
		fetcher = collector.NewHTTPFetcher(cfg.Backend.BaseURL, cfg.Backend.DataPath, cfg.Backend.UpdatePath, cfg.Proxy, cfg.Timeout())
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	rec := openRecorder(cfg)
	defer rec.Close()

	board := view.NewBoard()
	ctrl := display.NewController(fetcher, board, board, rec, loc)
	defer ctrl.Close()

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init Telegram notifier
	var tn *notifier.TelegramNotifier
	var sender notifier.Sender
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		sender = tn
	}

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, ctrl, board, sender)
	if err := sched.Register(cfg.Schedule.PollCron); err != nil {
		log.Fatalf("[FATAL] register poll task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	if cfg.Display.ChartPNG != "" {
		exp := pngchart.NewExporter(cfg.Display.ChartPNG, loc)
		go exp.Run(board, ctx.Done())
		log.Printf("[INFO] exporting chart to %s", cfg.Display.ChartPNG)
	}

	if cfg.Server.Listen != "" {
		srv := server.New(cfg.Server.Listen, board, sched, loc)
		go func() {
			if err := srv.ListenAndServe(); err != nil {
				log.Printf("[ERROR] control server: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Printf("[WARN] control server shutdown: %v", err)
			}
		}()
	}

	if *cfg.Schedule.FetchOnStart {
		go sched.RunNow()
	}

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			log.Println("[INFO] shutdown signal received, stopping...")
			cancel()
		case <-ctx.Done():
		}
	}()

	refresh := func() {
		// Failures are already on screen and in the log.
		_ = sched.UpdateData(ctx)
	}

	log.Printf("[INFO] OrbWatch is running (%s view)", cfg.Display.View)
	switch cfg.Display.View {
	case config.ViewTerminal:
		err = terminal.Run(ctx, board, refresh, loc)
	case config.ViewWindow:
		err = window.Run(ctx, board, refresh, loc)
	default:
		<-ctx.Done()
	}
	if err != nil {
		log.Printf("[ERROR] %s view: %v", cfg.Display.View, err)
	}

	cancel()
	log.Println("[INFO] OrbWatch stopped")
}

func openRecorder(cfg *config.Config) recorder.Recorder {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		r, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			return recorder.NewNoopRecorder()
		}
		return r
	case config.DriverPostgres:
		r, err := recorder.NewPostgresRecorder(cfg.Database.PostgresDSN)
		if err != nil {
			log.Printf("[WARN] init postgres recorder failed, using noop: %v", err)
			return recorder.NewNoopRecorder()
		}
		return r
	default:
		return recorder.NewNoopRecorder()
	}
}

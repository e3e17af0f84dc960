package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/claude/trainload/internal/bot"
	"github.com/claude/trainload/internal/config"
	"github.com/claude/trainload/internal/knowledge"
	"github.com/claude/trainload/internal/llm"
	"github.com/claude/trainload/internal/mcp"
	"github.com/claude/trainload/internal/server"
	"github.com/claude/trainload/internal/storage"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/robfig/cron"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	mcpMode := flag.Bool("mcp", false, "serve MCP over stdio instead of HTTP")
	mcpRemote := flag.String("mcp-remote", "", "with -mcp: base URL of a remote TrainLoad server to proxy instead of the local database")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("TrainLoad starting", "version", Version)

	kb, err := knowledge.Load()
	if err != nil {
		log.Error("failed to load knowledge base", "error", err)
		os.Exit(1)
	}

	// Remote MCP mode needs no config or database.
	if *mcpMode && *mcpRemote != "" {
		s := mcp.New(mcp.NewHTTPClient(*mcpRemote), kb, Version, log)
		if err := mcpserver.ServeStdio(s); err != nil {
			log.Error("mcp stdio server", "error", err)
			os.Exit(1)
		}
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	dsn := cfg.Database.DSN()
	if err := storage.RunMigrations(dsn); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	ctx := context.Background()
	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	if *mcpMode {
		s := mcp.New(db, kb, Version, log)
		if err := mcpserver.ServeStdio(s); err != nil {
			log.Error("mcp stdio server", "error", err)
			os.Exit(1)
		}
		return
	}

	var llmClient *llm.Client
	if cfg.LLM.APIKey != "" {
		llmClient, err = llm.New(ctx, cfg.LLM.APIKey, cfg.LLM.Model)
		if err != nil {
			log.Error("failed to create LLM client", "error", err)
			os.Exit(1)
		}
		log.Info("program generation enabled", "model", cfg.LLM.Model)
	} else {
		log.Info("no LLM API key, program generation disabled")
	}

	srv := server.New(db, kb, llmClient, cfg.Auth.APIKey, log)

	// Weekly mesocycle clock. Sunday night so Monday starts on the new
	// phase, matching the Monday-aligned volume weeks.
	c := cron.New()
	if err := c.AddFunc("0 0 23 * * SUN", func() {
		cronCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		advanced, err := db.AdvanceAllMesocycles(cronCtx)
		if err != nil {
			log.Error("weekly mesocycle advance failed", "error", err)
			return
		}
		log.Info("weekly mesocycle advance", "users", advanced)
	}); err != nil {
		log.Error("cron setup failed", "error", err)
		os.Exit(1)
	}
	c.Start()
	defer c.Stop()

	botCtx, botCancel := context.WithCancel(ctx)
	defer botCancel()
	if cfg.Telegram.Enabled {
		api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
		if err != nil {
			log.Error("telegram bot init failed", "error", err)
			os.Exit(1)
		}
		go bot.New(api, db, kb, llmClient, log).Run(botCtx)
	}

	// Start server — tsnet or plain HTTP
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		lc, err := tsServer.LocalClient()
		if err != nil {
			log.Error("tsnet local client failed", "error", err)
			os.Exit(1)
		}
		srv.SetTailscale(lc)

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)
	botCancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}

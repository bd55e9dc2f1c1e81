package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/liftplan/internal/coach"
	"github.com/claude/liftplan/internal/config"
	lpmcp "github.com/claude/liftplan/internal/mcp"
	"github.com/claude/liftplan/internal/storage"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "", "path to config file (direct database mode)")
	serverURL := flag.String("server", "", "liftplan server URL (remote mode)")
	userID := flag.Int("user", 1, "user ID for direct database mode")
	flag.Parse()

	// stdout carries the MCP protocol; logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if (*configPath == "") == (*serverURL == "") {
		fmt.Fprintf(os.Stderr, "Usage: liftplan-mcp (-config config.yaml [-user N] | -server https://liftplan.example.ts.net)\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	var ds lpmcp.DataSource
	ctx := context.Background()

	if *serverURL != "" {
		ds = lpmcp.NewHTTPClient(*serverURL)
		log.Info("using remote server", "url", *serverURL)
	} else {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		db, err := storage.New(ctx, cfg.Database.DSN())
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		ds = coach.New(db, db, db, cfg.Engine, log)
		log.Info("using database", "host", cfg.Database.Host, "user_id", *userID)
	}

	s := lpmcp.New(ds, Version, log)
	stdio := mcpserver.NewStdioServer(s)
	stdio.SetContextFunc(func(c context.Context) context.Context {
		return lpmcp.WithUserID(c, *userID)
	})
	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil {
		log.Error("mcp server stopped", "error", err)
		os.Exit(1)
	}
}

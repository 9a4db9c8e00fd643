package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/repforge/internal/fatigue"
	"github.com/claude/repforge/internal/mcp"
	"github.com/claude/repforge/internal/storage"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	apiURL := flag.String("api", "", "base URL of a running RepForge server (remote mode)")
	dsn := flag.String("dsn", "", "Postgres DSN for direct database access (local mode)")
	flag.Parse()

	// Logs go to stderr; stdout carries the MCP stdio transport.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if (*apiURL == "") == (*dsn == "") {
		fmt.Fprintf(os.Stderr, "Usage: repforge-mcp -api https://repforge.tailnet.ts.net  (or)  repforge-mcp -dsn postgres://...\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	var ds mcp.DataSource
	if *apiURL != "" {
		ds = mcp.NewHTTPClient(*apiURL)
		log.Info("remote mode", "api", *apiURL)
	} else {
		db, err := storage.New(context.Background(), *dsn)
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		ds = db
		log.Info("local mode, database connected")
	}

	srv := mcp.New(ds, fatigue.DefaultConfig(), Version, log)
	if err := mcpserver.ServeStdio(srv); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}

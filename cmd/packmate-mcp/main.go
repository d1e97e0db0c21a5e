package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/tripwise/packmate/mcp"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := mcp.Run(ctx); err != nil {
		log.Error().Err(err).Msg("MCP server exited with error")
		os.Exit(1)
	}
}

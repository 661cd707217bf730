package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/ternarybob/docqa/internal/app"
	"github.com/ternarybob/docqa/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and WebSocket server",
	Long:  `Starts the DocQA server which exposes the document registry, the Q&A session and live events over HTTP.`,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	logger.Info().
		Int("port", config.Server.Port).
		Str("host", config.Server.Host).
		Msg("Starting DocQA server")

	application, err := app.New(config, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize application")
		return err
	}
	defer application.Close()

	srv := server.New(application)

	serverErr := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				serverErr <- fmt.Errorf("server goroutine panicked: %v", r)
			}
		}()

		if err := srv.Start(); err != nil {
			serverErr <- err
		}
	}()

	logger.Info().
		Str("url", fmt.Sprintf("http://%s:%d", config.Server.Host, config.Server.Port)).
		Msg("Server ready - Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		logger.Info().Msg("Interrupt signal received")
	case err := <-serverErr:
		logger.Error().Err(err).Msg("Server failed to start")
		return err
	}

	logger.Info().Msg("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server shutdown failed")
	}

	logger.Info().Msg("Server stopped")
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"pixelscope/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("pixelscope %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("pixelscope - image transformation server")
			fmt.Println()
			fmt.Println("Usage: pixelscope [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  PIXELSCOPE_LOG_LEVEL=debug    Enable debug logging")
			fmt.Println()
			fmt.Println("The server speaks line-delimited JSON-RPC 2.0 over stdin/stdout.")
			fmt.Println("Load images into the workspace with image_load, then chain")
			fmt.Println("transform_* tools by image name.")
			return
		}
	}

	// Logging goes to stderr; stdout carries the protocol.
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if level, err := zerolog.ParseLevel(os.Getenv("PIXELSCOPE_LOG_LEVEL")); err == nil && level != zerolog.NoLevel {
		log = log.Level(level)
	} else {
		log = log.Level(zerolog.InfoLevel)
	}
	log.Debug().Str("version", Version).Str("built", BuildTime).Str("commit", GitCommit).
		Msg("starting server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(log)
	if err := srv.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

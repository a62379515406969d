package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/visiontools/vision-analyze-mcp/internal/config"
	"github.com/visiontools/vision-analyze-mcp/internal/server"
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
			fmt.Printf("vision-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("vision-mcp - MCP server for still-image feature extraction")
			fmt.Println()
			fmt.Println("Usage: vision-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  VISION_MCP_LOG_LEVEL      Log verbosity (debug, info, warn, error)")
			fmt.Println("  VISION_MCP_MAX_DIMENSION  Longer-edge bound for analyzable images")
			fmt.Println("  VISION_MCP_OCR_LANGUAGE   Tesseract language code (default eng)")
			fmt.Println("  VISION_MCP_TEMP_DIR       Directory for derived artifacts")
			fmt.Println("  VISION_MCP_FACE_CASCADE   Haar cascade file for gocv builds")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			return
		}
	}

	// Logging goes to stderr; stdout carries the MCP protocol stream.
	log := logrus.New()
	log.SetOutput(os.Stderr)

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	log.WithFields(logrus.Fields{
		"version": Version,
		"commit":  GitCommit,
	}).Debug("starting vision-mcp")

	srv := server.New(cfg, log)
	if err := srv.Run(); err != nil {
		log.WithError(err).Fatal("server error")
	}
}

package seedgen

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/classpulse/classpulse/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "seed_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the seed-records tool.
func ShowHelp() {
	os.Stdout.WriteString(`ClassPulse Seed Records Tool
============================

A concurrent tool for seeding the ClassPulse SPI service with synthetic
assessment records and verifying the computed scores.

Usage:
  go run cmd/seed-records/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -students int
        Number of synthetic students to generate (default 200)
  -courses int
        Courses per student (default 4)
  -assessments int
        Assessment occasions per course (default 3)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Output file for generated records (default: generated_records_TIMESTAMP.json)
  -log string
        Log file for run output (default: seed_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Seed with default settings
  go run cmd/seed-records/main.go

  # Seed with custom parameters
  go run cmd/seed-records/main.go -students 1000 -workers 16 -url http://localhost:8080

  # Seed with verbose output
  go run cmd/seed-records/main.go -verbose -students 500
`)
}

package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/classpulse/classpulse/internal/seedgen"
)

// Default configuration constants.
const (
	defaultNumStudents          = 200
	defaultCoursesPerStudent    = 4
	defaultAssessmentsPerCourse = 3
	defaultWorkers              = 2 // multiplier for runtime.NumCPU()
	defaultTimeout              = 30 * time.Second
	defaultRunTimeout           = 10 * time.Minute
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numStudents = flag.Int("students", defaultNumStudents, "Number of synthetic students to generate")
		courses     = flag.Int("courses", defaultCoursesPerStudent, "Courses per student")
		assessments = flag.Int("assessments", defaultAssessmentsPerCourse, "Assessment occasions per course")
		workers     = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile  = flag.String("output", "", "Output file for generated records (default: generated_records_TIMESTAMP.json)")
		logFile     = flag.String("log", "", "Log file for run output (default: seed_log_TIMESTAMP.log)")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		seedgen.ShowHelp()
		return
	}

	// Setup logging
	if err := seedgen.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	// Create run configuration
	config := &seedgen.Config{
		BaseURL:              *baseURL,
		NumStudents:          *numStudents,
		CoursesPerStudent:    *courses,
		AssessmentsPerCourse: *assessments,
		Workers:              *workers,
		Timeout:              *timeout,
		OutputFile:           *outputFile,
		LogFile:              *logFile,
		Verbose:              *verbose,
	}

	// Run the seed cycle
	if err := seedgen.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Seed run failed: " + err.Error() + "\n")
		return
	}
}

package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// JobStatus represents the outcome of a print job
type JobStatus string

const (
	StatusPrinted JobStatus = "printed"
	StatusFailed  JobStatus = "failed"
)

// PrintRequest is the payload the engine submits for each receipt
type PrintRequest struct {
	TransactionID int64  `json:"transaction_id"`
	Code          string `json:"code"`
	HTML          string `json:"html" binding:"required"`
}

// PrintResponse is returned after the job is handled
type PrintResponse struct {
	JobID       string    `json:"job_id"`
	Status      JobStatus `json:"status"`
	SpoolFile   string    `json:"spool_file,omitempty"`
	ErrorMsg    string    `json:"error_msg,omitempty"`
	ProcessedAt time.Time `json:"processed_at"`
}

// JobStatusResponse represents a job lookup response
type JobStatusResponse struct {
	JobID       string    `json:"job_id"`
	Status      JobStatus `json:"status"`
	SpoolFile   string    `json:"spool_file,omitempty"`
	ProcessedAt time.Time `json:"processed_at"`
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	PrinterID string    `json:"printer_id"`
	Timestamp time.Time `json:"timestamp"`
	SpoolDir  string    `json:"spool_dir"`
}

// MockPrinter simulates a thermal receipt printer. Instead of driving
// hardware it spools the rendered HTML to disk, which doubles as a
// receipt archive during development.
type MockPrinter struct {
	spoolDir  string
	failRate  float64
	minDelay  time.Duration
	maxDelay  time.Duration
	printerID string
	rng       *rand.Rand

	mu   sync.Mutex
	jobs map[string]*PrintResponse
}

// NewMockPrinter creates a new mock printer instance
func NewMockPrinter(spoolDir string, failRate float64, minDelay, maxDelay time.Duration) (*MockPrinter, error) {
	if err := os.MkdirAll(spoolDir, 0o755); err != nil {
		return nil, fmt.Errorf("create spool dir: %w", err)
	}
	return &MockPrinter{
		spoolDir:  spoolDir,
		failRate:  failRate,
		minDelay:  minDelay,
		maxDelay:  maxDelay,
		printerID: "MOCK_PRINTER_" + uuid.New().String()[:8],
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		jobs:      make(map[string]*PrintResponse),
	}, nil
}

// print simulates feeding one receipt through the printer
func (m *MockPrinter) print(req *PrintRequest) *PrintResponse {
	// Simulate the feed delay
	time.Sleep(m.randomDelay())

	response := &PrintResponse{
		JobID:       uuid.New().String(),
		ProcessedAt: time.Now(),
	}

	if m.shouldFail() {
		response.Status = StatusFailed
		response.ErrorMsg = m.randomErrorMessage()

		log.Warn().
			Str("job_id", response.JobID).
			Str("code", req.Code).
			Str("error", response.ErrorMsg).
			Msg("Print job failed")

		m.remember(response)
		return response
	}

	name := req.Code
	if name == "" {
		name = fmt.Sprintf("txn-%d", req.TransactionID)
	}
	spoolFile := filepath.Join(m.spoolDir, fmt.Sprintf("%s-%s.html", name, response.JobID[:8]))

	if err := os.WriteFile(spoolFile, []byte(req.HTML), 0o644); err != nil {
		response.Status = StatusFailed
		response.ErrorMsg = "failed to spool receipt: " + err.Error()

		log.Error().
			Str("job_id", response.JobID).
			Err(err).
			Msg("Failed to write spool file")

		m.remember(response)
		return response
	}

	response.Status = StatusPrinted
	response.SpoolFile = spoolFile

	log.Info().
		Str("job_id", response.JobID).
		Str("code", req.Code).
		Str("spool_file", spoolFile).
		Msg("Receipt printed")

	m.remember(response)
	return response
}

func (m *MockPrinter) remember(r *PrintResponse) {
	m.mu.Lock()
	m.jobs[r.JobID] = r
	m.mu.Unlock()
}

func (m *MockPrinter) lookup(jobID string) (*PrintResponse, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.jobs[jobID]
	return r, ok
}

func (m *MockPrinter) randomDelay() time.Duration {
	delta := m.maxDelay - m.minDelay
	if delta <= 0 {
		return m.minDelay
	}
	return m.minDelay + time.Duration(m.rng.Int63n(int64(delta)))
}

func (m *MockPrinter) shouldFail() bool {
	return m.rng.Float64() < m.failRate
}

func (m *MockPrinter) randomErrorMessage() string {
	errors := []string{
		"out of paper",
		"paper jam",
		"print head overheated",
		"cover open",
	}
	return errors[m.rng.Intn(len(errors))]
}

// Handler struct holds the mock printer and routes
type Handler struct {
	printer *MockPrinter
}

func NewHandler(printer *MockPrinter) *Handler {
	return &Handler{printer: printer}
}

// Print handles receipt print requests
func (h *Handler) Print(c *gin.Context) {
	var req PrintRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	log.Info().
		Int64("transaction_id", req.TransactionID).
		Str("code", req.Code).
		Int("html_bytes", len(req.HTML)).
		Msg("Received print request")

	response := h.printer.print(&req)

	statusCode := http.StatusOK
	if response.Status == StatusFailed {
		statusCode = http.StatusInternalServerError
	}

	c.JSON(statusCode, response)
}

// GetJob handles job status lookups
func (h *Handler) GetJob(c *gin.Context) {
	jobID := c.Param("job_id")

	response, ok := h.printer.lookup(jobID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "job not found",
		})
		return
	}

	c.JSON(http.StatusOK, JobStatusResponse{
		JobID:       response.JobID,
		Status:      response.Status,
		SpoolFile:   response.SpoolFile,
		ProcessedAt: response.ProcessedAt,
	})
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		PrinterID: h.printer.printerID,
		Timestamp: time.Now(),
		SpoolDir:  h.printer.spoolDir,
	})
}

// SetupRouter configures all routes
func SetupRouter(handler *Handler) *gin.Engine {
	router := gin.Default()

	// Add request logging middleware
	router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Msg("Request processed")
	})

	// API routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/print", handler.Print)
		v1.GET("/jobs/:job_id", handler.GetJob)
		v1.GET("/health", handler.HealthCheck)
	}

	// Root health check
	router.GET("/health", handler.HealthCheck)

	return router
}

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Get configuration from environment
	port := getEnv("PORT", "8191")
	spoolDir := getEnv("SPOOL_DIR", "./data/spool")
	failRate := getEnvFloat("FAIL_RATE", 0)
	minDelay := getEnvDuration("MIN_DELAY", 50*time.Millisecond)
	maxDelay := getEnvDuration("MAX_DELAY", 300*time.Millisecond)

	log.Info().
		Str("port", port).
		Str("spool_dir", spoolDir).
		Float64("fail_rate", failRate).
		Dur("min_delay", minDelay).
		Dur("max_delay", maxDelay).
		Msg("Starting Mock Receipt Printer")

	// Create mock printer
	printer, err := NewMockPrinter(spoolDir, failRate, minDelay, maxDelay)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create printer")
	}
	handler := NewHandler(printer)
	router := SetupRouter(handler)

	// Setup HTTP server
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		var f float64
		if _, err := fmt.Sscanf(value, "%f", &f); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

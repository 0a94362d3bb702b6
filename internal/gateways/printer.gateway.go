package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/smartpos/pos-engine/pkg/logger"
	"github.com/valyala/fasthttp"
)

var ErrPrinterUnavailable = errors.New("printer service unavailable")

// PrintJob is what the engine hands to the print subsystem. HTML is
// the fully rendered receipt; the printer does no layout of its own.
type PrintJob struct {
	TransactionID int64  `json:"transaction_id"`
	Code          string `json:"code"`
	HTML          string `json:"html"`
}

type PrintResponse struct {
	JobID       string    `json:"job_id"`
	Status      string    `json:"status"`
	ProcessedAt time.Time `json:"processed_at"`
}

type PrinterConfig struct {
	URL        string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
	MaxConns   int
}

func DefaultPrinterConfig(url string) PrinterConfig {
	return PrinterConfig{
		URL:        url,
		Timeout:    5 * time.Second,
		MaxRetries: 2,
		RetryDelay: 200 * time.Millisecond,
		MaxConns:   4,
	}
}

// PrinterClient talks to the local print service over loopback HTTP.
type PrinterClient struct {
	config PrinterConfig
	client *fasthttp.Client
}

func NewPrinterClient(config PrinterConfig) (*PrinterClient, error) {
	if config.URL == "" {
		return nil, errors.New("printer url is required")
	}
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Second
	}

	client := &fasthttp.Client{
		MaxConnsPerHost:     config.MaxConns,
		ReadTimeout:         config.Timeout,
		WriteTimeout:        config.Timeout,
		MaxIdleConnDuration: 60 * time.Second,
	}

	logger.Info("Printer client initialized", "url", config.URL, "timeout", config.Timeout)

	return &PrinterClient{config: config, client: client}, nil
}

// Print submits the job, retrying transient failures before giving up.
func (c *PrinterClient) Print(ctx context.Context, job *PrintJob) (*PrintResponse, error) {
	reqBody, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal print job: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.config.RetryDelay):
			}
		}

		response, err := c.doRequest(ctx, "POST", "/api/v1/print", reqBody)
		if err != nil {
			logger.Warn("Print request failed, retrying", "error", err, "attempt", attempt+1)
			lastErr = err
			continue
		}

		var resp PrintResponse
		if err := json.Unmarshal(response, &resp); err != nil {
			return nil, fmt.Errorf("failed to unmarshal print response: %w", err)
		}

		logger.Info("Receipt sent to printer", "code", job.Code, "job_id", resp.JobID, "status", resp.Status)

		return &resp, nil
	}

	return nil, fmt.Errorf("%w after %d attempts: %v", ErrPrinterUnavailable, c.config.MaxRetries+1, lastErr)
}

func (c *PrinterClient) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.config.URL + path)
	req.Header.SetMethod(method)
	req.Header.SetContentType("application/json")

	if body != nil {
		req.SetBody(body)
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.config.Timeout)
	}

	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	statusCode := resp.StatusCode()
	if statusCode != fasthttp.StatusOK && statusCode != fasthttp.StatusAccepted {
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", statusCode, resp.Body())
	}

	result := make([]byte, len(resp.Body()))
	copy(result, resp.Body())

	return result, nil
}

package data

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// DefaultSourceURL is the CSV resource of the "Monthly Exchequer Tax Receipts
// 1984 - Present" dataset. If it moves, search data.gov.ie for the dataset
// name and copy the CSV link into data.source_url.
const DefaultSourceURL = "https://data.gov.ie/dataset/Monthly_Exchequer_Tax_Receipts_1984___Present/resource.csv"

// maxBodyBytes bounds a downloaded publication.
const maxBodyBytes = 32 << 20

// ReceiptsClient downloads the raw receipts publication.
type ReceiptsClient struct {
	SourceURL string
	Client    *http.Client
	Cache     *ResponseCache
	// MaxBodyBytes bounds the download; zero means maxBodyBytes.
	MaxBodyBytes int64
}

// NewReceiptsClient creates a client. If sourceURL is empty, defaults to
// DefaultSourceURL; a zero timeout means 30s. cache may be nil.
func NewReceiptsClient(sourceURL string, timeout time.Duration, cache *ResponseCache) *ReceiptsClient {
	if sourceURL == "" {
		sourceURL = DefaultSourceURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ReceiptsClient{
		SourceURL: sourceURL,
		Client:    &http.Client{Timeout: timeout},
		Cache:     cache,
	}
}

// Fetch returns the raw bytes of the publication. Failures are *IngestionError.
func (c *ReceiptsClient) Fetch(ctx context.Context) ([]byte, error) {
	cacheKey := GenerateCacheKey(c.SourceURL)
	if body, found := c.Cache.Get(cacheKey); found {
		log.Printf("[Ingest] Cache hit: %d bytes (url=%s)", len(body), c.SourceURL)
		return body, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.SourceURL, nil)
	if err != nil {
		return nil, &IngestionError{Source: SourceOfficial, Code: "INVALID_URL", Message: "failed to create request", Err: err}
	}
	req.Header.Set("Accept", "text/csv, application/vnd.openxmlformats-officedocument.spreadsheetml.sheet, */*")
	req.Header.Set("User-Agent", "taxmeter/1.0")

	log.Printf("[Ingest] Request: GET %s", c.SourceURL)
	startTime := time.Now()
	resp, err := c.Client.Do(req)
	duration := time.Since(startTime)
	if err != nil {
		log.Printf("[Ingest] Request failed: %v (duration: %v)", err, duration)
		return nil, &IngestionError{Source: SourceOfficial, Code: "REQUEST_FAILED", Message: "failed to execute request", Err: err}
	}
	defer resp.Body.Close()

	log.Printf("[Ingest] Response: %s (duration: %v)", resp.Status, duration)

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, &IngestionError{
			Source:     SourceOfficial,
			StatusCode: resp.StatusCode,
			Code:       "SOURCE_NOT_FOUND",
			Message:    "receipts resource not found; check data.source_url",
		}
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &IngestionError{
			Source:     SourceOfficial,
			StatusCode: resp.StatusCode,
			Code:       "RATE_LIMIT_EXCEEDED",
			Message:    fmt.Sprintf("rate limit exceeded. Retry after: %s", resp.Header.Get("Retry-After")),
		}
	default:
		return nil, &IngestionError{
			Source:     SourceOfficial,
			StatusCode: resp.StatusCode,
			Code:       "SOURCE_ERROR",
			Message:    fmt.Sprintf("source returned status %d: %s", resp.StatusCode, resp.Status),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.bodyLimit()+1))
	if err != nil {
		return nil, &IngestionError{Source: SourceOfficial, Code: "READ_FAILED", Message: "failed to read response body", Err: err}
	}
	// A truncated table could end mid-number; refuse it rather than parse it.
	if int64(len(body)) > c.bodyLimit() {
		return nil, &IngestionError{
			Source:     SourceOfficial,
			StatusCode: resp.StatusCode,
			Code:       "BODY_TOO_LARGE",
			Message:    fmt.Sprintf("publication exceeds %d bytes", c.bodyLimit()),
		}
	}
	if len(body) == 0 {
		return nil, &IngestionError{Source: SourceOfficial, StatusCode: resp.StatusCode, Code: "EMPTY_BODY", Message: "source returned an empty body"}
	}

	c.Cache.Set(cacheKey, body)
	return body, nil
}

func (c *ReceiptsClient) bodyLimit() int64 {
	if c.MaxBodyBytes > 0 {
		return c.MaxBodyBytes
	}
	return maxBodyBytes
}

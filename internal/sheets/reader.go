package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Veraticus/mission-control/internal/common"
	"github.com/Veraticus/mission-control/internal/model"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Reader implements Fetcher against the Google Sheets values API.
type Reader struct {
	service *sheets.Service
	logger  *slog.Logger
	now     func() time.Time
	config  Config
}

var _ Fetcher = (*Reader)(nil)

// NewReader validates the config, loads the service-account credential and
// creates a read-only Sheets client.
func NewReader(ctx context.Context, config Config, logger *slog.Logger) (*Reader, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	cred, err := LoadCredentials(ctx, config.ServiceAccount)
	if err != nil {
		return nil, err
	}

	service, err := createSheetsService(ctx, config, cred)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return NewReaderWithService(service, config, logger), nil
}

// NewReaderWithService wraps an existing Sheets client.
func NewReaderWithService(service *sheets.Service, config Config, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{
		service: service,
		config:  config,
		logger:  logger,
		now:     time.Now,
	}
}

// createSheetsService creates a Google Sheets API service.
func createSheetsService(ctx context.Context, config Config, cred *Credential) (*sheets.Service, error) {
	httpClient := oauth2.NewClient(ctx, cred.TokenSource)

	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if config.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(config.Endpoint))
	}

	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}

// Fetch reads rng. Transport and auth failures are reported through the
// result rather than returned, and the table degrades to empty.
func (r *Reader) Fetch(ctx context.Context, rng model.SheetRange) FetchResult {
	if err := rng.Validate(); err != nil {
		return Failure(rng, err, r.now())
	}

	var values [][]any
	err := common.WithRetry(ctx, func() error {
		v, getErr := r.get(ctx, rng)
		if getErr != nil {
			return classifyError(getErr)
		}
		values = v
		return nil
	}, r.retryOptions(rng))
	if err != nil {
		r.logger.Warn("failed to fetch range",
			"range", rng.Range,
			"spreadsheet_id", rng.SpreadsheetID,
			"error", err)
		return Failure(rng, err, r.now())
	}

	table := model.NewTable(values)
	r.logger.Debug("fetched range",
		"range", rng.Range,
		"headers", len(table.Headers),
		"rows", table.Len())

	return Success(rng, table, r.now())
}

// get performs a single values.get call bounded by the request timeout.
func (r *Reader) get(ctx context.Context, rng model.SheetRange) ([][]any, error) {
	if r.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.RequestTimeout)
		defer cancel()
	}

	resp, err := r.service.Spreadsheets.Values.Get(rng.SpreadsheetID, rng.Range).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (r *Reader) retryOptions(rng model.SheetRange) common.RetryOptions {
	attempts := r.config.RetryAttempts
	if attempts == 0 {
		attempts = 1
	}
	return common.RetryOptions{
		Logger:       r.logger,
		Operation:    "values.get " + rng.Range,
		MaxAttempts:  attempts,
		InitialDelay: r.config.RetryDelay,
		MaxDelay:     8 * r.config.RetryDelay,
		Multiplier:   2.0,
	}
}

// classifyError marks errors as retryable or not. Rate limits, server
// errors and network failures are retried. Other API errors, token endpoint
// rejections and cancellation are final.
func classifyError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			return &common.RetryableError{Err: fmt.Errorf("%w: %w", common.ErrRateLimit, err), Retryable: true}
		case apiErr.Code >= http.StatusInternalServerError:
			return &common.RetryableError{Err: err, Retryable: true}
		default:
			return &common.RetryableError{Err: err, Retryable: false}
		}
	}

	var tokenErr *oauth2.RetrieveError
	if errors.As(err, &tokenErr) && tokenErr.Response != nil {
		code := tokenErr.Response.StatusCode
		retryable := code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
		return &common.RetryableError{Err: err, Retryable: retryable}
	}

	if errors.Is(err, context.Canceled) {
		return &common.RetryableError{Err: err, Retryable: false}
	}

	return &common.RetryableError{Err: err, Retryable: true}
}

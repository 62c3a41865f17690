package collector

import (
	"context"
	"errors"
	"time"

	"StockLens/internal/model"
)

var (
	// ErrNotFound means the provider does not know the ticker.
	ErrNotFound = errors.New("ticker not found")
	// ErrNoData means the ticker exists but no bars were returned for the range.
	ErrNoData = errors.New("no data returned")
	// ErrInvalidRange means the start date is not strictly before the end date.
	ErrInvalidRange = errors.New("start date must be before end date")
)

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	// FetchHistory returns daily bars in [start, end), oldest first.
	FetchHistory(ctx context.Context, symbol string, start, end time.Time) (*model.PriceSeries, error)
	FetchProfile(ctx context.Context, symbol string) (*model.CompanyProfile, error)
	Name() string
}

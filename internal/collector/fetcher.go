package collector

import (
	"context"
	"errors"

	"DailyNoteSentinel/internal/model"
)

// ErrStatusUnavailable is the only error a Fetcher returns. Transport
// failures, bad result codes and empty payloads all collapse into it.
var ErrStatusUnavailable = errors.New("account status unavailable")

// Fetcher defines the interface for fetching the account status snapshot.
type Fetcher interface {
	Fetch(ctx context.Context) (*model.AccountStatus, error)
	Name() string
}

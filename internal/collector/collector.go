package collector

import (
	"context"
	"time"

	"DailyNoteSentinel/internal/model"
)

// StaticFetcher returns a fixed snapshot for development and testing.
// A nil Status behaves like an unreachable API.
type StaticFetcher struct {
	Status *model.AccountStatus
	Calls  int
}

func (s *StaticFetcher) Name() string { return "static" }

func (s *StaticFetcher) Fetch(_ context.Context) (*model.AccountStatus, error) {
	s.Calls++
	if s.Status == nil {
		return nil, ErrStatusUnavailable
	}
	snap := *s.Status
	snap.Expeditions = append([]model.Expedition(nil), s.Status.Expeditions...)
	if snap.FetchedAt.IsZero() {
		snap.FetchedAt = time.Now()
	}
	return &snap, nil
}

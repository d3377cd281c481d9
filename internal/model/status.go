package model

import "time"

// ExpeditionStatus is the state reported for a single dispatched expedition.
type ExpeditionStatus string

const (
	ExpeditionOngoing  ExpeditionStatus = "Ongoing"
	ExpeditionFinished ExpeditionStatus = "Finished"
)

// Expedition is one dispatched character.
type Expedition struct {
	Status           ExpeditionStatus
	RemainingSeconds int
}

// AccountStatus is one point-in-time daily note snapshot.
type AccountStatus struct {
	CurrentResin            int
	MaxResin                int
	ResinRecoverySeconds    int // seconds until resin is full
	CurrentHomeCoin         int
	MaxHomeCoin             int
	HomeCoinRecoverySeconds int // seconds until the realm currency is full
	TransformerReady        bool
	Expeditions             []Expedition
	FinishedTaskNum         int
	TotalTaskNum            int
	DailyTaskRewardClaimed  bool
	FetchedAt               time.Time
}

// FinishedExpeditions counts expeditions with status Finished.
func (s *AccountStatus) FinishedExpeditions() int {
	n := 0
	for _, e := range s.Expeditions {
		if e.Status == ExpeditionFinished {
			n++
		}
	}
	return n
}

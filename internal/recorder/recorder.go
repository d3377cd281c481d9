package recorder

import (
	"time"

	"DailyNoteSentinel/internal/model"
)

// RunRecord summarizes one run for the history table.
type RunRecord struct {
	Timestamp               time.Time
	StatusOK                bool
	ResinRecoverySeconds    int
	HomeCoinRecoverySeconds int
	TransformerReady        bool
	FinishedExpeditions     int
	TotalExpeditions        int
	DailyRewardClaimed      bool
	Flags                   model.ReportFlags
	Outcome                 string // notifier outcome, or "FETCH_FAILED"
	Error                   string
}

// Recorder persists run history for later inspection. The run loop only
// writes to it; nothing in a run depends on what was recorded before.
type Recorder interface {
	RecordRun(rec *RunRecord) error
	Recent(limit int) ([]RunRecord, error)
	Close() error
}

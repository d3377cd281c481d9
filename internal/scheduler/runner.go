package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"DailyNoteSentinel/internal/calculator"
	"DailyNoteSentinel/internal/collector"
	"DailyNoteSentinel/internal/evaluator"
	"DailyNoteSentinel/internal/model"
	"DailyNoteSentinel/internal/notifier"
	"DailyNoteSentinel/internal/recorder"
)

const outcomeFetchFailed = "FETCH_FAILED"

// Ack is the fixed-shape acknowledgment of a successful run.
type Ack struct {
	OK       bool              `json:"ok"`
	Notified bool              `json:"notified"`
	Outcome  notifier.Outcome  `json:"outcome"`
	Flags    model.ReportFlags `json:"flags"`
}

// Runner executes one fetch -> evaluate -> dispatch pass per call.
type Runner struct {
	Fetcher    collector.Fetcher
	Dispatcher *notifier.Dispatcher
	Recorder   recorder.Recorder
	Now        func() time.Time
}

// NewRunner creates a Runner using the wall clock.
func NewRunner(fetcher collector.Fetcher, dispatcher *notifier.Dispatcher, rec recorder.Recorder) *Runner {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Runner{
		Fetcher:    fetcher,
		Dispatcher: dispatcher,
		Recorder:   rec,
		Now:        time.Now,
	}
}

// RunOnce performs one run. It fails only when no usable status could be
// fetched; notification delivery problems are logged and reflected in the Ack.
func (r *Runner) RunOnce(ctx context.Context) (*Ack, error) {
	log.Printf("[INFO] running daily note check via %s", r.Fetcher.Name())

	status, err := r.Fetcher.Fetch(ctx)
	if err != nil {
		r.record(&recorder.RunRecord{
			Timestamp: r.Now(),
			Outcome:   outcomeFetchFailed,
			Error:     err.Error(),
		})
		return nil, fmt.Errorf("fetch status: %w", err)
	}

	now := r.Now()
	flags := evaluator.Evaluate(status, now)
	log.Printf("[INFO] resin full in %s, realm currency full in %s, flags=%+v",
		calculator.HumanizeSeconds(status.ResinRecoverySeconds),
		calculator.HumanizeSeconds(status.HomeCoinRecoverySeconds),
		flags)

	outcome := r.Dispatcher.Dispatch(ctx, flags)

	r.record(&recorder.RunRecord{
		Timestamp:               now,
		StatusOK:                true,
		ResinRecoverySeconds:    status.ResinRecoverySeconds,
		HomeCoinRecoverySeconds: status.HomeCoinRecoverySeconds,
		TransformerReady:        status.TransformerReady,
		FinishedExpeditions:     status.FinishedExpeditions(),
		TotalExpeditions:        len(status.Expeditions),
		DailyRewardClaimed:      status.DailyTaskRewardClaimed,
		Flags:                   flags,
		Outcome:                 string(outcome),
	})

	return &Ack{
		OK:       true,
		Notified: outcome == notifier.OutcomeSent,
		Outcome:  outcome,
		Flags:    flags,
	}, nil
}

func (r *Runner) record(rec *recorder.RunRecord) {
	if err := r.Recorder.RecordRun(rec); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}
}

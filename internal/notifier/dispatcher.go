package notifier

import (
	"context"
	"log"

	"DailyNoteSentinel/internal/model"
)

// Outcome is the result of one dispatch.
type Outcome string

const (
	OutcomeNothingSent Outcome = "NOTHING_SENT"
	OutcomeSent        Outcome = "SENT"
	OutcomeSendFailed  Outcome = "SEND_FAILED"
)

// Dispatcher turns report flags into at most one outbound message.
type Dispatcher struct {
	Sender Sender
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(sender Sender) *Dispatcher {
	return &Dispatcher{Sender: sender}
}

// Dispatch sends one message when any flag is set. A send failure is
// logged and reported through the outcome, never as an error.
func (d *Dispatcher) Dispatch(ctx context.Context, flags model.ReportFlags) Outcome {
	if !flags.Any() {
		return OutcomeNothingSent
	}
	text := FormatReport(flags)
	if err := d.Sender.Send(ctx, text); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
		return OutcomeSendFailed
	}
	log.Printf("[INFO] notification sent (%d bytes)", len(text))
	return OutcomeSent
}

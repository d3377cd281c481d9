package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"DailyNoteSentinel/internal/collector"
	"DailyNoteSentinel/internal/notifier"
	"DailyNoteSentinel/internal/recorder"
)

// memRecorder keeps records in memory.
type memRecorder struct {
	recorder.NoopRecorder
	runs []recorder.RunRecord
}

func (m *memRecorder) RecordRun(rec *recorder.RunRecord) error {
	m.runs = append(m.runs, *rec)
	return nil
}

type webhookSink struct {
	mu       sync.Mutex
	messages []string
}

func (w *webhookSink) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.messages)
}

func newWebhook(t *testing.T, status int) (*httptest.Server, *webhookSink) {
	t.Helper()
	sink := &webhookSink{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var p struct {
			Text string `json:"text"`
		}
		_ = json.Unmarshal(body, &p)
		sink.mu.Lock()
		sink.messages = append(sink.messages, p.Text)
		sink.mu.Unlock()
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, sink
}

// dailyNote renders a daily note API response.
func dailyNote(resin, homeCoin int, transformer bool, expeditionStatus string, claimed bool) string {
	return fmt.Sprintf(`{"retcode":0,"message":"OK","data":{
		"current_resin":100,"max_resin":200,"resin_recovery_time":"%d",
		"expeditions":[{"status":"Ongoing","remained_time":"100"},{"status":"%s","remained_time":"0"}],
		"current_home_coin":10,"max_home_coin":2400,"home_coin_recovery_time":"%d",
		"transformer":{"obtained":true,"recovery_time":{"reached":%v}},
		"daily_task":{"total_num":4,"finished_num":4,"is_extra_task_reward_received":%v}}}`,
		resin, expeditionStatus, homeCoin, transformer, claimed)
}

func newStatusAPI(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// newTestRunner wires a runner against fake APIs with a Tokyo-time clock.
func newTestRunner(t *testing.T, apiBody string, webhookStatus int, tokyoHour int) (*Runner, *webhookSink, *memRecorder) {
	t.Helper()
	api := newStatusAPI(t, apiBody)
	hook, sink := newWebhook(t, webhookStatus)
	rec := &memRecorder{}

	fetcher := collector.NewHoYoLabFetcher(api.URL, "800000001", "os_asia", "tok", "uid", "")
	dispatcher := notifier.NewDispatcher(notifier.NewWebhookNotifier(hook.URL, "", ""))
	r := NewRunner(fetcher, dispatcher, rec)

	jst := time.FixedZone("JST", 9*3600)
	r.Now = func() time.Time { return time.Date(2026, 10, 19, tokyoHour, 15, 0, 0, jst) }
	return r, sink, rec
}

func TestRunOnce_ResinOnly(t *testing.T) {
	r, sink, rec := newTestRunner(t, dailyNote(3600, 90000, false, "Ongoing", true), http.StatusOK, 22)

	ack, err := r.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !ack.OK || !ack.Notified || ack.Outcome != notifier.OutcomeSent {
		t.Errorf("unexpected ack: %+v", ack)
	}
	if sink.count() != 1 {
		t.Fatalf("expected 1 webhook call, got %d", sink.count())
	}
	want := notifier.Salutation + "\n" + notifier.LineResin
	if sink.messages[0] != want {
		t.Errorf("expected message %q, got %q", want, sink.messages[0])
	}
	if len(rec.runs) != 1 || !rec.runs[0].StatusOK || rec.runs[0].Outcome != string(notifier.OutcomeSent) {
		t.Errorf("unexpected run record: %+v", rec.runs)
	}
}

func TestRunOnce_AllConditions(t *testing.T) {
	r, sink, _ := newTestRunner(t, dailyNote(0, 0, true, "Finished", false), http.StatusOK, 21)

	ack, err := r.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !ack.Notified {
		t.Errorf("expected notification, ack=%+v", ack)
	}
	if sink.count() != 1 {
		t.Fatalf("expected 1 webhook call, got %d", sink.count())
	}
	want := notifier.Salutation + "\n" + notifier.LineResin + "\n" + notifier.LineHomeCoin + "\n" +
		notifier.LineTransformer + "\n" + notifier.LineExpeditions + "\n" + notifier.LineDailyTask
	if sink.messages[0] != want {
		t.Errorf("expected message %q, got %q", want, sink.messages[0])
	}
}

func TestRunOnce_NothingToReport(t *testing.T) {
	// Reward unclaimed but before the reminder hour.
	r, sink, rec := newTestRunner(t, dailyNote(50000, 90000, false, "Ongoing", false), http.StatusOK, 20)

	ack, err := r.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !ack.OK || ack.Notified || ack.Outcome != notifier.OutcomeNothingSent {
		t.Errorf("unexpected ack: %+v", ack)
	}
	if sink.count() != 0 {
		t.Errorf("expected zero webhook calls, got %d", sink.count())
	}
	if len(rec.runs) != 1 || rec.runs[0].Flags.Any() {
		t.Errorf("unexpected run record: %+v", rec.runs)
	}
}

func TestRunOnce_FetchFailureFailsRun(t *testing.T) {
	bodies := []string{
		`{"retcode":-100,"message":"OK","data":null}`,
		`{"retcode":0,"message":"not logged in","data":{}}`,
		`{"retcode":0,"message":"OK","data":null}`,
	}
	for _, body := range bodies {
		r, sink, rec := newTestRunner(t, body, http.StatusOK, 22)
		ack, err := r.RunOnce(context.Background())
		if !errors.Is(err, collector.ErrStatusUnavailable) {
			t.Errorf("%s: expected ErrStatusUnavailable, got %v", body, err)
		}
		if ack != nil {
			t.Errorf("%s: expected nil ack, got %+v", body, ack)
		}
		if sink.count() != 0 {
			t.Errorf("%s: expected no webhook call, got %d", body, sink.count())
		}
		if len(rec.runs) != 1 || rec.runs[0].Outcome != outcomeFetchFailed {
			t.Errorf("%s: expected fetch failure record, got %+v", body, rec.runs)
		}
	}
}

func TestRunOnce_WebhookFailureDoesNotFailRun(t *testing.T) {
	r, sink, _ := newTestRunner(t, dailyNote(100, 90000, false, "Ongoing", true), http.StatusInternalServerError, 10)

	ack, err := r.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("webhook failure must not fail the run: %v", err)
	}
	if !ack.OK || ack.Notified || ack.Outcome != notifier.OutcomeSendFailed {
		t.Errorf("unexpected ack: %+v", ack)
	}
	if sink.count() != 1 {
		t.Errorf("expected exactly one attempt, got %d", sink.count())
	}
}

func TestRunOnce_Stateless(t *testing.T) {
	r, sink, _ := newTestRunner(t, dailyNote(3600, 90000, false, "Ongoing", true), http.StatusOK, 12)
	for i := 0; i < 3; i++ {
		if _, err := r.RunOnce(context.Background()); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
	if sink.count() != 3 {
		t.Errorf("expected a notification on every run, got %d", sink.count())
	}
}

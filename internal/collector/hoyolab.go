package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"DailyNoteSentinel/internal/calculator"
	"DailyNoteSentinel/internal/model"
)

// HoYoLabFetcher implements Fetcher using the HoYoLAB daily note API.
type HoYoLabFetcher struct {
	BaseURL string
	RoleID  string
	Server  string
	LToken  string
	LTUID   string
	Client  *http.Client
}

// NewHoYoLabFetcher creates a fetcher with optional proxy support.
func NewHoYoLabFetcher(baseURL, roleID, server, ltoken, ltuid, proxyURL string) *HoYoLabFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &HoYoLabFetcher{
		BaseURL: baseURL,
		RoleID:  roleID,
		Server:  server,
		LToken:  ltoken,
		LTUID:   ltuid,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *HoYoLabFetcher) Name() string { return "hoyolab" }

// dailyNoteResponse is the envelope returned by the daily note endpoint.
type dailyNoteResponse struct {
	Retcode int            `json:"retcode"`
	Message string         `json:"message"`
	Data    *dailyNoteData `json:"data"`
}

type dailyNoteData struct {
	CurrentResin              int    `json:"current_resin"`
	MaxResin                  int    `json:"max_resin"`
	ResinRecoveryTime         string `json:"resin_recovery_time"`
	FinishedTaskNum           int    `json:"finished_task_num"`
	TotalTaskNum              int    `json:"total_task_num"`
	IsExtraTaskRewardReceived bool   `json:"is_extra_task_reward_received"`
	Expeditions               []struct {
		Status       string `json:"status"`
		RemainedTime string `json:"remained_time"`
	} `json:"expeditions"`
	CurrentHomeCoin      int    `json:"current_home_coin"`
	MaxHomeCoin          int    `json:"max_home_coin"`
	HomeCoinRecoveryTime string `json:"home_coin_recovery_time"`
	Transformer          struct {
		Obtained     bool `json:"obtained"`
		RecoveryTime struct {
			Reached bool `json:"reached"`
		} `json:"recovery_time"`
	} `json:"transformer"`
	DailyTask *struct {
		IsExtraTaskRewardReceived bool `json:"is_extra_task_reward_received"`
	} `json:"daily_task"`
}

// Fetch performs one request. Every failure is logged and reported as
// ErrStatusUnavailable.
func (f *HoYoLabFetcher) Fetch(ctx context.Context) (*model.AccountStatus, error) {
	status, err := f.fetch(ctx)
	if err != nil {
		log.Printf("[WARN] daily note unavailable: %v", err)
		return nil, ErrStatusUnavailable
	}
	return status, nil
}

func (f *HoYoLabFetcher) fetch(ctx context.Context) (*model.AccountStatus, error) {
	params := url.Values{}
	params.Set("role_id", f.RoleID)
	params.Set("server", f.Server)
	params.Set("schedule_type", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cookie", fmt.Sprintf("ltoken_v2=%s; ltuid_v2=%s", f.LToken, f.LTUID))

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hoyolab fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("hoyolab read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hoyolab: status %d, body: %s", resp.StatusCode, truncate(body, 200))
	}

	var note dailyNoteResponse
	if err := json.Unmarshal(body, &note); err != nil {
		return nil, fmt.Errorf("hoyolab decode: %w", err)
	}
	if note.Retcode != 0 {
		return nil, fmt.Errorf("irregular retcode %d (%s)", note.Retcode, note.Message)
	}
	if note.Message != "OK" {
		return nil, fmt.Errorf("irregular message %q", note.Message)
	}
	if note.Data == nil {
		return nil, errors.New("irregular response: data is null")
	}
	return toStatus(note.Data)
}

func toStatus(d *dailyNoteData) (*model.AccountStatus, error) {
	resin, err := calculator.ParseRecoverySeconds(d.ResinRecoveryTime)
	if err != nil {
		return nil, fmt.Errorf("resin: %w", err)
	}
	homeCoin, err := calculator.ParseRecoverySeconds(d.HomeCoinRecoveryTime)
	if err != nil {
		return nil, fmt.Errorf("home coin: %w", err)
	}

	claimed := d.IsExtraTaskRewardReceived
	if d.DailyTask != nil {
		claimed = d.DailyTask.IsExtraTaskRewardReceived
	}

	exps := make([]model.Expedition, 0, len(d.Expeditions))
	for _, e := range d.Expeditions {
		remaining, err := calculator.ParseRecoverySeconds(e.RemainedTime)
		if err != nil {
			remaining = 0 // informational only
		}
		exps = append(exps, model.Expedition{
			Status:           model.ExpeditionStatus(e.Status),
			RemainingSeconds: remaining,
		})
	}

	return &model.AccountStatus{
		CurrentResin:            d.CurrentResin,
		MaxResin:                d.MaxResin,
		ResinRecoverySeconds:    resin,
		CurrentHomeCoin:         d.CurrentHomeCoin,
		MaxHomeCoin:             d.MaxHomeCoin,
		HomeCoinRecoverySeconds: homeCoin,
		TransformerReady:        d.Transformer.RecoveryTime.Reached,
		Expeditions:             exps,
		FinishedTaskNum:         d.FinishedTaskNum,
		TotalTaskNum:            d.TotalTaskNum,
		DailyTaskRewardClaimed:  claimed,
		FetchedAt:               time.Now(),
	}, nil
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}

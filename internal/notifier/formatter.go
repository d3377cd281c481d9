package notifier

import (
	"fmt"
	"strings"

	"DailyNoteSentinel/internal/calculator"
	"DailyNoteSentinel/internal/model"
)

// Message lines. Order in FormatReport is fixed.
const (
	Salutation      = "おい！"
	LineResin       = "樹脂があふれそうだぞ！"
	LineHomeCoin    = "洞天集宝盆があふれそうだぞ！"
	LineTransformer = "参量物質変化器が使用可能になったぞ！"
	LineExpeditions = "探索派遣が終わったぞ！"
	LineDailyTask   = "デイリー任務の報酬を受け取っていないぞ！"
)

// FormatReport renders the notification text for flags. It returns "" when
// no flag is set.
func FormatReport(flags model.ReportFlags) string {
	if !flags.Any() {
		return ""
	}
	lines := []string{Salutation}
	if flags.ResinNearCap {
		lines = append(lines, LineResin)
	}
	if flags.HomeCoinNearCap {
		lines = append(lines, LineHomeCoin)
	}
	if flags.TransformerUsable {
		lines = append(lines, LineTransformer)
	}
	if flags.ExpeditionsFinished {
		lines = append(lines, LineExpeditions)
	}
	if flags.DailyTaskPending {
		lines = append(lines, LineDailyTask)
	}
	return strings.Join(lines, "\n")
}

// FormatStatus summarizes a snapshot for the dry-run check output.
func FormatStatus(s *model.AccountStatus) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Resin: %d/%d (full in %s)\n",
		s.CurrentResin, s.MaxResin, calculator.HumanizeSeconds(s.ResinRecoverySeconds)))
	b.WriteString(fmt.Sprintf("Realm currency: %d/%d (full in %s)\n",
		s.CurrentHomeCoin, s.MaxHomeCoin, calculator.HumanizeSeconds(s.HomeCoinRecoverySeconds)))
	b.WriteString(fmt.Sprintf("Transformer ready: %v\n", s.TransformerReady))
	b.WriteString(fmt.Sprintf("Expeditions: %d/%d finished\n", s.FinishedExpeditions(), len(s.Expeditions)))
	b.WriteString(fmt.Sprintf("Daily commissions: %d/%d, reward claimed: %v\n",
		s.FinishedTaskNum, s.TotalTaskNum, s.DailyTaskRewardClaimed))
	return b.String()
}

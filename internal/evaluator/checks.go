package evaluator

import "DailyNoteSentinel/internal/model"

// belowThreshold reports whether remaining seconds are under threshold.
// A negative threshold disables the check.
func belowThreshold(remaining, threshold int) bool {
	if threshold < 0 {
		return false
	}
	return remaining < threshold
}

// checkResin fires when resin will overflow within ResinThresholdSeconds.
func checkResin(s *model.AccountStatus) bool {
	return belowThreshold(s.ResinRecoverySeconds, ResinThresholdSeconds)
}

// checkHomeCoin fires when the realm currency will overflow within HomeCoinThresholdSeconds.
func checkHomeCoin(s *model.AccountStatus) bool {
	return belowThreshold(s.HomeCoinRecoverySeconds, HomeCoinThresholdSeconds)
}

func checkTransformer(s *model.AccountStatus) bool {
	return s.TransformerReady
}

// checkExpeditions fires if any expedition is finished.
func checkExpeditions(s *model.AccountStatus) bool {
	for _, e := range s.Expeditions {
		if e.Status == model.ExpeditionFinished {
			return true
		}
	}
	return false
}

// checkDailyTask fires when the daily reward is unclaimed and it is already
// DailyTaskReminderHour or later in the reference zone.
func checkDailyTask(s *model.AccountStatus, hour int) bool {
	if s.DailyTaskRewardClaimed {
		return false
	}
	return hour >= DailyTaskReminderHour
}

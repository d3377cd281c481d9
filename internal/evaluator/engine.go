package evaluator

import (
	"time"
	_ "time/tzdata" // the reference zone must resolve on hosts without zoneinfo

	"DailyNoteSentinel/internal/calculator"
	"DailyNoteSentinel/internal/model"
)

// Thresholds. A negative value disables the corresponding check.
const (
	ResinThresholdSeconds    = 7200  // 2 hours
	HomeCoinThresholdSeconds = 36000 // 10 hours
	DailyTaskReminderHour    = 21
	ReferenceZone            = "Asia/Tokyo"
)

// referenceLocation is the zone the daily reset and reminder hour are
// computed in, independent of the host's time.Local.
var referenceLocation = mustLoadLocation(ReferenceZone)

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic("evaluator: load location " + name + ": " + err.Error())
	}
	return loc
}

// Evaluate derives the report flags for one snapshot at instant now.
func Evaluate(status *model.AccountStatus, now time.Time) model.ReportFlags {
	hour := calculator.HourIn(now, referenceLocation)
	return model.ReportFlags{
		ResinNearCap:        checkResin(status),
		HomeCoinNearCap:     checkHomeCoin(status),
		TransformerUsable:   checkTransformer(status),
		ExpeditionsFinished: checkExpeditions(status),
		DailyTaskPending:    checkDailyTask(status, hour),
	}
}

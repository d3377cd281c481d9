package model

// ReportFlags holds the five independent "needs attention" conditions
// derived from one AccountStatus.
type ReportFlags struct {
	ResinNearCap        bool `json:"resin_near_cap"`
	HomeCoinNearCap     bool `json:"home_coin_near_cap"`
	TransformerUsable   bool `json:"transformer_usable"`
	ExpeditionsFinished bool `json:"expeditions_finished"`
	DailyTaskPending    bool `json:"daily_task_pending"`
}

// Any reports whether at least one flag is set.
func (f ReportFlags) Any() bool {
	return f.ResinNearCap || f.HomeCoinNearCap || f.TransformerUsable ||
		f.ExpeditionsFinished || f.DailyTaskPending
}

package calculator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hako/durafmt"
)

// ParseRecoverySeconds converts a recovery time reported as a decimal string
// ("0", "12345") into seconds.
func ParseRecoverySeconds(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errors.New("empty recovery time")
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse recovery time %q: %w", raw, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative recovery time %d", n)
	}
	return n, nil
}

// HumanizeSeconds renders a second count as e.g. "1 hour 30 minutes".
// Zero renders as "now".
func HumanizeSeconds(seconds int) string {
	if seconds <= 0 {
		return "now"
	}
	return durafmt.Parse(time.Duration(seconds) * time.Second).LimitFirstN(2).String()
}

// HourIn returns the wall-clock hour of t in loc.
func HourIn(t time.Time, loc *time.Location) int {
	return t.In(loc).Hour()
}

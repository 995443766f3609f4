package transform

import (
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/tomashby/ramsgen/internal/domain"
)

var (
	hourDurationRe   = regexp.MustCompile(`(?i)(\d+)\s*hour`)
	minuteDurationRe = regexp.MustCompile(`(?i)(\d+)\s*min`)
)

// minutesPerDay is a site working day, used when bucketing long totals.
const minutesPerDay = 480

// EstimateTotalDuration sums the per-step duration strings into a single
// human-readable figure. Parsing is deliberately naive: at most one unit is
// recognized per step, hours before minutes, so "1 hour 30 minutes"
// contributes 60 and unrecognized formats contribute 0. Totals bucket to
// minutes under an hour, rounded hours under a day, or whole days above.
func EstimateTotalDuration(steps []domain.MethodStep) string {
	total := 0
	for _, step := range steps {
		total += parseDurationMinutes(step.EstimatedDuration)
	}

	switch {
	case total < 60:
		return fmt.Sprintf("%d minutes", total)
	case total < minutesPerDay:
		hours := int(math.Round(float64(total) / 60))
		return fmt.Sprintf("%d %s", hours, plural(hours, "hour"))
	default:
		days := int(math.Ceil(float64(total) / minutesPerDay))
		return fmt.Sprintf("%d %s", days, plural(days, "day"))
	}
}

func parseDurationMinutes(s string) int {
	if m := hourDurationRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n * 60
	}
	if m := minuteDurationRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n
	}
	return 0
}

func plural(n int, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}

package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tomashby/ramsgen/internal/domain"
)

func steps(durations ...string) []domain.MethodStep {
	out := make([]domain.MethodStep, len(durations))
	for i, d := range durations {
		out[i] = domain.MethodStep{EstimatedDuration: d}
	}
	return out
}

func TestEstimateTotalDuration(t *testing.T) {
	tests := []struct {
		name      string
		durations []string
		want      string
	}{
		{"empty", nil, "0 minutes"},
		{"under an hour", []string{"59 minutes"}, "59 minutes"},
		{"exactly an hour", []string{"60 minutes"}, "1 hour"},
		{"rounds down to one hour", []string{"30 minutes", "45 minutes"}, "1 hour"},
		{"rounds up", []string{"1 hour", "40 minutes"}, "2 hours"},
		{"just under a day", []string{"479 minutes"}, "8 hours"},
		{"exactly a day", []string{"8 hours"}, "1 day"},
		{"ceils to days", []string{"10 hours"}, "2 days"},
		{"mixed units sum", []string{"2 hours", "30 minutes", "90 minutes"}, "4 hours"},
		{"unrecognized contributes zero", []string{"a while", "45 minutes"}, "45 minutes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EstimateTotalDuration(steps(tt.durations...)))
		})
	}
}

func TestParseDurationMinutes_FirstUnitOnly(t *testing.T) {
	// Only the first recognized unit counts; the trailing minutes are dropped.
	assert.Equal(t, 60, parseDurationMinutes("1 hour 30 minutes"))
	assert.Equal(t, 90, parseDurationMinutes("90 mins"))
	assert.Equal(t, 120, parseDurationMinutes("approx 2 Hours"))
	assert.Equal(t, 0, parseDurationMinutes("half a day"))
}

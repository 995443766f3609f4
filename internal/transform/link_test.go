package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tomashby/ramsgen/internal/domain"
)

func TestLinkHazards(t *testing.T) {
	hazards := []domain.Hazard{
		{ID: "h-1", Hazard: "Electric shock from live conductors"},
		{ID: "h-2", Hazard: "Working at height"},
		{ID: "h-3", Hazard: "Exposure to silica dust"},
	}

	tests := []struct {
		name     string
		stepText string
		want     []string
	}{
		{
			name:     "step matching two hazard categories",
			stepText: "Terminate live cable in ceiling void",
			want:     []string{"h-1", "h-2"},
		},
		{
			name:     "drilling matches dust",
			stepText: "Drill fixing holes for the consumer unit",
			want:     []string{"h-3"},
		},
		{
			name:     "no step-side keywords",
			stepText: "Complete handover paperwork",
			want:     nil,
		},
		{
			name:     "hazard keyword alone is not enough",
			stepText: "Order replacement parts", // no electric/height/dust step words
			want:     nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LinkHazards(tt.stepText, hazards))
		})
	}
}

func TestLinkHazards_NoDuplicates(t *testing.T) {
	// A hazard matching several keyword pairs must still appear once.
	hazards := []domain.Hazard{
		{ID: "h-1", Hazard: "slips and trips over trailing cables"},
	}
	linked := LinkHazards("route cables across the floor and install trunking", hazards)
	assert.Equal(t, []string{"h-1"}, linked)
}

func TestLinkHazards_Idempotent(t *testing.T) {
	hazards := []domain.Hazard{
		{ID: "h-1", Hazard: "Electric shock from live conductors"},
		{ID: "h-2", Hazard: "Manual handling of switchgear"},
	}
	first := LinkHazards("lift and connect the distribution board", hazards)
	second := LinkHazards("lift and connect the distribution board", hazards)
	assert.Equal(t, first, second)
}

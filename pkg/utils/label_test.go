package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeLabel(t *testing.T) {
	tests := []struct {
		name     string
		existing Label
		incoming Label
		want     Label
	}{
		{name: "empty existing", incoming: Label{Value: "a", Source: "rank"}, want: Label{Value: "a", Source: "rank"}},
		{name: "empty incoming", existing: Label{Value: "a", Source: "rank"}, want: Label{Value: "a", Source: "rank"}},
		{name: "accumulate", existing: Label{Value: "a", Source: "rank"}, incoming: Label{Value: "b", Source: "rerank"}, want: Label{Value: "a|b", Source: "rank,rerank"}},
		{name: "missing source", existing: Label{Value: "a"}, incoming: Label{Value: "b", Source: "rerank"}, want: Label{Value: "a|b", Source: "rerank"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MergeLabel(tt.existing, tt.incoming))
		})
	}
}

func TestScoreLabel(t *testing.T) {
	assert.Equal(t, Label{Value: "0.8125", Source: "rank.flight"}, ScoreLabel(0.8125, "rank.flight"))
}

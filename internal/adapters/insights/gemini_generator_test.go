package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInsightJSON(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []string
		wantErr bool
	}{
		{
			name: "plain array",
			raw:  `["a", "b", "c"]`,
			want: []string{"a", "b", "c"},
		},
		{
			name: "fenced array",
			raw:  "```json\n[\"a\", \"b\", \"c\"]\n```",
			want: []string{"a", "b", "c"},
		},
		{
			name: "array with surrounding prose",
			raw:  "Here are your insights:\n[\"a\", \"b\", \"c\"]\nHope that helps!",
			want: []string{"a", "b", "c"},
		},
		{
			name:    "wrong count",
			raw:     `["only one"]`,
			wantErr: true,
		},
		{
			name:    "not json",
			raw:     "I cannot produce insights right now.",
			wantErr: true,
		},
		{
			// The array is recovered even when wrapped in an object.
			name: "array nested in stray object",
			raw:  `{"insights": ["a", "b", "c"]}`,
			want: []string{"a", "b", "c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseInsightJSON(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCleanModelJSON_StripsFences(t *testing.T) {
	raw := "```\n[1, 2, 3]\n```"
	assert.Equal(t, "[1, 2, 3]", cleanModelJSON(raw))
}

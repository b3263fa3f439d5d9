package study

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"QUICK_REVIEW", QuickReview, false},
		{"quick_review", QuickReview, false},
		{"quick", QuickReview, false},
		{"Deep-Study", DeepStudy, false},
		{"revision", Revision, false},
		{" test ", TestPrep, false},
		{"TEST_PREP", TestPrep, false},
		{"cram", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestModeCounts(t *testing.T) {
	assert.Equal(t, 3, QuickReview.DefaultCount())
	assert.Equal(t, 5, DeepStudy.DefaultCount())
	assert.Equal(t, 5, Revision.DefaultCount())
	assert.Equal(t, 5, TestPrep.DefaultCount())
	assert.Equal(t, "Test Prep", TestPrep.Label())
	assert.Equal(t, "deep", DeepStudy.Short())
	assert.False(t, Mode("OTHER").Valid())
}

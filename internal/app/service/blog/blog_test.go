package blog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fatflowers/storetis/pkg/errs"
)

func TestPickSlug(t *testing.T) {
	cases := []struct {
		name  string
		taken []string
		want  string
	}{
		{"free", nil, "khuyen-mai"},
		{"first suffix", []string{"khuyen-mai"}, "khuyen-mai-1"},
		{"next suffix", []string{"khuyen-mai", "khuyen-mai-1", "khuyen-mai-2"}, "khuyen-mai-3"},
		{"fills gap", []string{"khuyen-mai", "khuyen-mai-2"}, "khuyen-mai-1"},
		{"suffix alone does not block base", []string{"khuyen-mai-1"}, "khuyen-mai"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			taken := map[string]bool{}
			for _, s := range tc.taken {
				taken[s] = true
			}
			assert.Equal(t, tc.want, pickSlug("khuyen-mai", taken))
		})
	}
}

func TestValidate(t *testing.T) {
	err := validate(&PostInput{Title: "   "})
	require.ErrorIs(t, err, errs.ErrInvalid)
	var verr *errs.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "title")

	require.NoError(t, validate(&PostInput{Title: "Khuyến mãi tháng 5"}))
}

package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fatflowers/storetis/internal/models"
)

func TestSearch_ShortQuery(t *testing.T) {
	s := NewService(nil)
	for _, q := range []string{"", " ", "a", " b ", "đ"} {
		res, err := s.Search(context.Background(), q)
		require.NoError(t, err)
		assert.Empty(t, res.Services)
		assert.Empty(t, res.Posts)
		assert.NotNil(t, res.Services)
	}
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%gói vip%", likePattern("Gói VIP"))
	assert.Equal(t, `%50\%\_off%`, likePattern("50%_off"))
}

func TestHits(t *testing.T) {
	h := serviceHit(models.Service{ID: "s1", Name: "Gói A"})
	assert.Equal(t, "Khác", h.Category)
	assert.Equal(t, "/api/v1/services/s1", h.URL)
	assert.Nil(t, h.Thumbnail)

	h = serviceHit(models.Service{ID: "s2", Name: "Gói B", Thumbnail: "/media/services/x.png", Category: &models.Category{Name: "Sức khỏe"}})
	assert.Equal(t, "Sức khỏe", h.Category)
	require.NotNil(t, h.Thumbnail)

	p := postHit(models.Post{Title: "Tin mới", Slug: "tin-moi"})
	assert.Equal(t, "/api/v1/posts/tin-moi", p.URL)
	assert.Equal(t, "Tin mới", p.Name)
}

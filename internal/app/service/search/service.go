package search

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/fatflowers/storetis/internal/models"
)

const (
	MinQueryLen = 2
	Limit       = 3

	ServiceURLPrefix = "/api/v1/services/"
	PostURLPrefix    = "/api/v1/posts/"
)

type ServiceHit struct {
	Name      string  `json:"name"`
	URL       string  `json:"url"`
	Category  string  `json:"category"`
	Thumbnail *string `json:"thumbnail"`
}

type PostHit struct {
	Name      string  `json:"name"`
	URL       string  `json:"url"`
	Thumbnail *string `json:"thumbnail"`
}

type Result struct {
	Services []ServiceHit `json:"services"`
	Posts    []PostHit    `json:"posts"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// likePattern lowercases q and escapes LIKE wildcards.
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(q)) + "%"
}

func orNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func serviceHit(svc models.Service) ServiceHit {
	return ServiceHit{
		Name:      svc.Name,
		URL:       ServiceURLPrefix + svc.ID,
		Category:  svc.CategoryLabel(),
		Thumbnail: orNil(svc.Thumbnail),
	}
}

func postHit(p models.Post) PostHit {
	return PostHit{Name: p.Title, URL: PostURLPrefix + p.Slug, Thumbnail: orNil(p.Image)}
}

// Search matches services by name or description and posts by title or
// content, case-insensitively. Queries shorter than two characters match
// nothing.
func (s *Service) Search(ctx context.Context, q string) (*Result, error) {
	res := &Result{Services: []ServiceHit{}, Posts: []PostHit{}}
	q = strings.TrimSpace(q)
	if utf8.RuneCountInString(q) < MinQueryLen {
		return res, nil
	}
	like := likePattern(q)

	var services []models.Service
	var posts []models.Post
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.db.WithContext(gctx).
			Preload("Category").
			Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like).
			Order("name").
			Limit(Limit).
			Find(&services).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).
			Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", like, like).
			Order("created_at DESC").
			Limit(Limit).
			Find(&posts).Error
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	res.Services = lo.Map(services, func(svc models.Service, _ int) ServiceHit { return serviceHit(svc) })
	res.Posts = lo.Map(posts, func(p models.Post, _ int) PostHit { return postHit(p) })
	return res, nil
}

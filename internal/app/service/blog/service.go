package blog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/storetis/internal/models"
	"github.com/fatflowers/storetis/pkg/errs"
	"github.com/fatflowers/storetis/pkg/logctx"
	"github.com/fatflowers/storetis/pkg/tool"
)

var ErrPostNotFound = errs.New(errs.ErrNotFound, "post not found")

const (
	LatestCount = 5
	OtherCount  = 3
	// fallbackSlug is used when a title has nothing to slugify.
	fallbackSlug = "post"
)

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

type PostInput struct {
	Title   string `json:"title"`
	Slug    string `json:"slug"`
	Content string `json:"content"`
}

// PostDetail is a post with a few others to read next.
type PostDetail struct {
	Post   *models.Post  `json:"post"`
	Others []models.Post `json:"others"`
}

// pickSlug returns base, or base-N with the smallest N >= 1 not in taken.
func pickSlug(base string, taken map[string]bool) string {
	if !taken[base] {
		return base
	}
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s-%d", base, n)
		if !taken[candidate] {
			return candidate
		}
	}
}

func (s *Service) takenSlugs(tx *gorm.DB, base, selfID string) (map[string]bool, error) {
	var slugs []string
	q := tx.Model(&models.Post{}).Where("slug = ? OR slug LIKE ?", base, base+"-%")
	if selfID != "" {
		q = q.Where("id <> ?", selfID)
	}
	if err := q.Pluck("slug", &slugs).Error; err != nil {
		return nil, err
	}
	return lo.SliceToMap(slugs, func(s string) (string, bool) { return s, true }), nil
}

// assignSlug fills p.Slug. An explicit slug must be free; a generated one is
// suffixed until it is.
func (s *Service) assignSlug(tx *gorm.DB, p *models.Post, explicit string) error {
	if explicit = tool.Slugify(explicit); explicit != "" {
		taken, err := s.takenSlugs(tx, explicit, p.ID)
		if err != nil {
			return err
		}
		if taken[explicit] {
			return errs.Field("slug", "already exists")
		}
		p.Slug = explicit
		return nil
	}
	base := tool.Slugify(p.Title)
	if base == "" {
		base = fallbackSlug
	}
	taken, err := s.takenSlugs(tx, base, p.ID)
	if err != nil {
		return err
	}
	p.Slug = pickSlug(base, taken)
	return nil
}

func validate(in *PostInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return errs.Field("title", "required")
	}
	return nil
}

func (s *Service) List(ctx context.Context) ([]models.Post, error) {
	posts := make([]models.Post, 0)
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&posts).Error
	return posts, err
}

// Latest returns the newest posts for the home page.
func (s *Service) Latest(ctx context.Context) ([]models.Post, error) {
	posts := make([]models.Post, 0, LatestCount)
	err := s.db.WithContext(ctx).Order("created_at DESC").Limit(LatestCount).Find(&posts).Error
	return posts, err
}

func (s *Service) Get(ctx context.Context, id string) (*models.Post, error) {
	var p models.Post
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetBySlug returns the post and up to three other posts picked at random.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*PostDetail, error) {
	var p models.Post
	if err := s.db.WithContext(ctx).First(&p, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	var ids []string
	if err := s.db.WithContext(ctx).Model(&models.Post{}).Where("id <> ?", p.ID).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	others := make([]models.Post, 0, OtherCount)
	if picked := lo.Samples(ids, OtherCount); len(picked) > 0 {
		if err := s.db.WithContext(ctx).Where("id IN ?", picked).Find(&others).Error; err != nil {
			return nil, err
		}
	}
	return &PostDetail{Post: &p, Others: others}, nil
}

func (s *Service) Create(ctx context.Context, in *PostInput) (*models.Post, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	p := &models.Post{Title: strings.TrimSpace(in.Title), Content: in.Content}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.assignSlug(tx, p, in.Slug); err != nil {
			return err
		}
		if err := tx.Create(p).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errs.Field("slug", "already exists")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logctx.FromCtx(ctx, s.log).Infow("post created", "post_id", p.ID, "slug", p.Slug)
	return p, nil
}

// Update changes title and content. The slug only changes when one is given.
func (s *Service) Update(ctx context.Context, id string, in *PostInput) (*models.Post, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Title = strings.TrimSpace(in.Title)
	p.Content = in.Content
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.Slug != "" && tool.Slugify(in.Slug) != p.Slug {
			if err := s.assignSlug(tx, p, in.Slug); err != nil {
				return err
			}
		}
		if err := tx.Model(p).Select("title", "slug", "content").Updates(p).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errs.Field("slug", "already exists")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) SetImage(ctx context.Context, id, url string) (*models.Post, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(p).Update("image", url).Error; err != nil {
		return nil, err
	}
	p.Image = url
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.Post{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

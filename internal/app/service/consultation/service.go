package consultation

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fatflowers/storetis/internal/models"
	"github.com/fatflowers/storetis/internal/platform/kafka"
	"github.com/fatflowers/storetis/pkg/errs"
	"github.com/fatflowers/storetis/pkg/logctx"
	"github.com/fatflowers/storetis/pkg/metrics"
	"github.com/fatflowers/storetis/pkg/types"
)

var (
	ErrRequestNotFound = errs.New(errs.ErrNotFound, "consultation request not found")
	ErrServiceNotFound = errs.New(errs.ErrNotFound, "service not found")
	ErrUserNotFound    = errs.New(errs.ErrNotFound, "user not found")
	ErrNotAssignee     = errs.New(errs.ErrForbidden, "you cannot view or edit this request")
	ErrStaffOnly       = errs.New(errs.ErrForbidden, "staff only")
	ErrInvalidStatus   = errs.New(errs.ErrInvalid, "unknown consultation status")
	ErrReopen          = errs.New(errs.ErrConflict, "a completed request cannot be reopened")
)

// Outcomes recorded for each consultation request.
const (
	OutcomeAssigned   = "assigned"
	OutcomeUnassigned = "unassigned"
	OutcomeDuplicate  = "duplicate"
)

// Picker chooses the consultant for a new request, or nil when staff is empty.
type Picker func(staff []models.User) *models.User

// RandomPicker picks uniformly at random.
func RandomPicker(staff []models.User) *models.User {
	if len(staff) == 0 {
		return nil
	}
	u := lo.Sample(staff)
	return &u
}

type Service struct {
	db        *gorm.DB
	log       *zap.SugaredLogger
	metrics   *metrics.Registry
	publisher kafka.Publisher
	pick      Picker
	now       func() time.Time
}

func NewService(db *gorm.DB, log *zap.SugaredLogger, m *metrics.Registry, p kafka.Publisher) *Service {
	return &Service{db: db, log: log, metrics: m, publisher: p, pick: RandomPicker, now: time.Now}
}

// RequestResult reports the open request for the pair and whether it already
// existed before the call.
type RequestResult struct {
	Request *models.ConsultationRequest `json:"request"`
	Existed bool                        `json:"existed"`
}

// Request opens a consultation for (user, service) unless one is still open.
// A new request goes to a random active consultant when there is one.
func (s *Service) Request(ctx context.Context, userID, serviceID string) (*RequestResult, error) {
	res := &RequestResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Serializes concurrent requests from the same user.
		var u models.User
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&u, "id = ?", userID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		var svc models.Service
		if err := tx.Select("id", "name").First(&svc, "id = ?", serviceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrServiceNotFound
			}
			return err
		}

		var open models.ConsultationRequest
		err = tx.Where("user_id = ? AND service_id = ? AND status IN ?", userID, serviceID,
			[]types.ConsultationStatus{types.ConsultationStatusNew, types.ConsultationStatusAssigned}).
			First(&open).Error
		if err == nil {
			res.Request, res.Existed = &open, true
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var staff []models.User
		if err := tx.Where("is_staff = ? AND is_active = ? AND is_superuser = ?", true, true, false).Find(&staff).Error; err != nil {
			return err
		}
		req := &models.ConsultationRequest{UserID: userID, ServiceID: &svc.ID, Status: types.ConsultationStatusNew}
		if picked := s.pick(staff); picked != nil {
			req.AssignedStaffID = &picked.ID
			req.Status = types.ConsultationStatusAssigned
		}
		if err := tx.Create(req).Error; err != nil {
			return err
		}
		res.Request = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	lg := logctx.FromCtx(ctx, s.log)
	switch {
	case res.Existed:
		s.metrics.Consultation(OutcomeDuplicate)
	case res.Request.AssignedStaffID != nil:
		s.metrics.Consultation(OutcomeAssigned)
	default:
		s.metrics.Consultation(OutcomeUnassigned)
	}
	if !res.Existed {
		s.publisher.Publish(ctx, kafka.EventConsultationRequested, res.Request.ID, res.Request)
		lg.Infow("consultation requested", "request_id", res.Request.ID, "status", res.Request.Status)
	}
	return res, nil
}

// ListFilter selects requests by state: pending (new or assigned), completed
// or all.
type ListFilter string

const (
	ListPending   ListFilter = "pending"
	ListCompleted ListFilter = "completed"
	ListAll       ListFilter = "all"
)

// List shows superusers every request and other staff their own.
func (s *Service) List(ctx context.Context, viewer *models.User, filter ListFilter) ([]models.ConsultationRequest, error) {
	if !viewer.IsStaff && !viewer.IsSuperuser {
		return nil, ErrStaffOnly
	}
	q := s.db.WithContext(ctx).Preload("User").Preload("Service").Preload("AssignedStaff")
	if !viewer.IsSuperuser {
		q = q.Where("assigned_staff_id = ?", viewer.ID)
	}
	switch filter {
	case ListCompleted:
		q = q.Where("status = ?", types.ConsultationStatusCompleted)
	case ListAll:
	default:
		q = q.Where("status IN ?", []types.ConsultationStatus{types.ConsultationStatusNew, types.ConsultationStatusAssigned})
	}
	list := make([]models.ConsultationRequest, 0)
	err := q.Order("created_at DESC").Find(&list).Error
	return list, err
}

func canAccess(viewer *models.User, c *models.ConsultationRequest) bool {
	if viewer.IsSuperuser {
		return true
	}
	return viewer.IsStaff && c.AssignedStaffID != nil && *c.AssignedStaffID == viewer.ID
}

func (s *Service) Get(ctx context.Context, viewer *models.User, id string) (*models.ConsultationRequest, error) {
	var c models.ConsultationRequest
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Service").
		Preload("AssignedStaff").
		First(&c, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	if !canAccess(viewer, &c) {
		return nil, ErrNotAssignee
	}
	return &c, nil
}

type UpdateInput struct {
	Status types.ConsultationStatus `json:"status"`
	Notes  *string                  `json:"notes"`
}

// applyUpdate sets status and notes. Completed is terminal: only the notes of
// a completed request may still change. CompletedAt is stamped on the first
// move into completed.
func applyUpdate(c *models.ConsultationRequest, in *UpdateInput, now time.Time) error {
	if in.Status != "" {
		if !in.Status.Valid() {
			return ErrInvalidStatus
		}
		if c.Status == types.ConsultationStatusCompleted && in.Status != types.ConsultationStatusCompleted {
			return ErrReopen
		}
		c.Status = in.Status
	}
	if in.Notes != nil {
		c.Notes = strings.TrimSpace(*in.Notes)
	}
	if c.Status == types.ConsultationStatusCompleted && c.CompletedAt == nil {
		t := now
		c.CompletedAt = &t
	}
	return nil
}

func (s *Service) Update(ctx context.Context, viewer *models.User, id string, in *UpdateInput) (*models.ConsultationRequest, error) {
	c, err := s.Get(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	if err := applyUpdate(c, in, s.now()); err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Model(c).
		Select("status", "notes", "completed_at").
		Updates(c).Error
	if err != nil {
		return nil, err
	}
	logctx.FromCtx(ctx, s.log).Infow("consultation updated", "request_id", c.ID, "status", c.Status)
	return c, nil
}

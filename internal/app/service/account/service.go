package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/fatflowers/storetis/internal/models"
	"github.com/fatflowers/storetis/pkg/config"
	"github.com/fatflowers/storetis/pkg/errs"
	"github.com/fatflowers/storetis/pkg/logctx"
)

var (
	ErrUserNotFound       = errs.New(errs.ErrNotFound, "user not found")
	ErrInvalidCredentials = errs.New(errs.ErrUnauthorized, "wrong identifier or password")
	ErrInactive           = errs.New(errs.ErrUnauthorized, "account is disabled")
	ErrNotParent          = errs.New(errs.ErrForbidden, "only parent accounts can manage child users")
	ErrDemoteSuperuser    = errs.New(errs.ErrForbidden, "cannot remove staff rights from a superuser")
	ErrProfileIncomplete  = errs.New(errs.ErrInvalid, "please complete your profile first")
)

const minPasswordLen = 8

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
	cfg *config.Config
}

func NewService(db *gorm.DB, log *zap.SugaredLogger, cfg *config.Config) *Service {
	return &Service{db: db, log: log, cfg: cfg}
}

// RequireCompleteProfile fails with ErrProfileIncomplete naming the missing fields.
func RequireCompleteProfile(u *models.User) error {
	if missing := u.MissingProfileFields(); len(missing) > 0 {
		return fmt.Errorf("%w (missing: %s)", ErrProfileIncomplete, strings.Join(missing, ", "))
	}
	return nil
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	CCCD     string `json:"cccd"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// Identifiers holds the optional login identifiers of a user.
type Identifiers struct {
	Email *string
	Phone *string
	CCCD  *string
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func normalizeEmail(s string) *string {
	p := optional(s)
	if p == nil {
		return nil
	}
	lower := strings.ToLower(*p)
	return &lower
}

func (r *RegisterRequest) identifiers() Identifiers {
	return Identifiers{Email: normalizeEmail(r.Email), Phone: optional(r.Phone), CCCD: optional(r.CCCD)}
}

// checkIdentifiersFree reports taken identifiers as field errors. excludeID
// skips the user being edited.
func (s *Service) checkIdentifiersFree(ctx context.Context, tx *gorm.DB, ids Identifiers, excludeID string) error {
	verr := &errs.ValidationError{}
	check := func(field, column string, v *string) error {
		if v == nil {
			return nil
		}
		q := tx.WithContext(ctx).Model(&models.User{}).Where(column+" = ?", *v)
		if excludeID != "" {
			q = q.Where("id <> ?", excludeID)
		}
		var n int64
		if err := q.Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			verr.Add(field, "already registered")
		}
		return nil
	}
	if err := check("email", "email", ids.Email); err != nil {
		return err
	}
	if err := check("phone", "phone", ids.Phone); err != nil {
		return err
	}
	if err := check("cccd", "cccd", ids.CCCD); err != nil {
		return err
	}
	return verr.OrNil()
}

func hashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// duplicateAsValidation maps a unique violation that slipped past the
// pre-check (concurrent registration) to a field error.
func duplicateAsValidation(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.Field("identifier", "already registered")
	}
	return err
}

func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	ids := req.identifiers()
	if ids.Email == nil && ids.Phone == nil && ids.CCCD == nil {
		return nil, errs.Field("identifier", "provide at least an email, phone number or CCCD")
	}
	if len(req.Password) < minPasswordLen {
		return nil, errs.Field("password", fmt.Sprintf("must be at least %d characters", minPasswordLen))
	}
	if err := s.checkIdentifiersFree(ctx, s.db, ids, ""); err != nil {
		return nil, err
	}
	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Email:        ids.Email,
		Phone:        ids.Phone,
		CCCD:         ids.CCCD,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(req.FullName),
		IsActive:     true,
	}
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, duplicateAsValidation(err)
	}
	logctx.FromCtx(ctx, s.log).Infow("user registered", "user_id", u.ID)
	return u, nil
}

// findByIdentifier looks a user up by email (case-insensitive), then phone,
// then CCCD. Phone is tried first so a phone number that happens to equal
// another user's CCCD still resolves to its owner.
func (s *Service) findByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, ErrUserNotFound
	}
	columns := []string{"phone", "cccd"}
	if strings.Contains(identifier, "@") {
		identifier = strings.ToLower(identifier)
		columns = []string{"email"}
	}
	for _, col := range columns {
		var u models.User
		err := s.db.WithContext(ctx).Where(col+" = ?", identifier).First(&u).Error
		if err == nil {
			return &u, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return nil, ErrUserNotFound
}

type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResult, error) {
	u, err := s.findByIdentifier(ctx, req.Identifier)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrInactive
	}
	token, exp, err := s.IssueToken(u.ID, time.Now())
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: exp, User: u}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// ProfileUpdate carries the fields a user may change on their profile. Nil
// fields are left untouched.
type ProfileUpdate struct {
	FullName    *string    `json:"full_name"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Address     *string    `json:"address"`
	Phone       *string    `json:"phone"`
	Email       *string    `json:"email"`
	IDCardImage *string    `json:"-"`
	FaceIDImage *string    `json:"-"`
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, req *ProfileUpdate) (*models.User, error) {
	var out *models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u models.User
		if err := tx.First(&u, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		ids := Identifiers{}
		if req.Email != nil {
			ids.Email = normalizeEmail(*req.Email)
		}
		if req.Phone != nil {
			ids.Phone = optional(*req.Phone)
		}
		if err := s.checkIdentifiersFree(ctx, tx, ids, u.ID); err != nil {
			return err
		}
		if req.Email != nil {
			u.Email = ids.Email
		}
		if req.Phone != nil {
			u.Phone = ids.Phone
		}
		if u.Email == nil && u.Phone == nil && u.CCCD == nil {
			return errs.Field("identifier", "at least one of email, phone number or CCCD must remain")
		}
		if req.FullName != nil {
			u.FullName = strings.TrimSpace(*req.FullName)
		}
		if req.DateOfBirth != nil {
			u.DateOfBirth = req.DateOfBirth
		}
		if req.Address != nil {
			u.Address = strings.TrimSpace(*req.Address)
		}
		if req.IDCardImage != nil {
			u.IDCardImage = *req.IDCardImage
		}
		if req.FaceIDImage != nil {
			u.FaceIDImage = *req.FaceIDImage
		}
		if err := tx.Save(&u).Error; err != nil {
			return duplicateAsValidation(err)
		}
		out = &u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// EnsureSuperuser creates the configured superuser, or promotes the existing
// account with that email.
func (s *Service) EnsureSuperuser(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}
	u, err := s.findByIdentifier(ctx, email)
	switch {
	case err == nil:
		if u.IsStaff && u.IsSuperuser {
			return nil
		}
		return s.db.WithContext(ctx).Model(u).Updates(map[string]any{"is_staff": true, "is_superuser": true}).Error
	case errors.Is(err, ErrUserNotFound):
		hash, err := hashPassword(password)
		if err != nil {
			return err
		}
		su := &models.User{Email: &email, PasswordHash: hash, IsActive: true, IsStaff: true, IsSuperuser: true}
		if err := s.db.WithContext(ctx).Create(su).Error; err != nil {
			return err
		}
		s.log.Infow("superuser created", "user_id", su.ID)
		return nil
	default:
		return err
	}
}

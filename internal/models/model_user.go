package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/fatflowers/storetis/pkg/tool"
)

// User is a customer or staff account. At least one of Email, Phone or CCCD is
// set; each is unique when present.
type User struct {
	ID           string     `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	Email        *string    `gorm:"column:email;type:varchar(254);uniqueIndex" json:"email"`
	Phone        *string    `gorm:"column:phone;type:varchar(15);uniqueIndex" json:"phone"`
	CCCD         *string    `gorm:"column:cccd;type:varchar(20);uniqueIndex" json:"cccd"`
	PasswordHash string     `gorm:"column:password_hash;type:varchar(100);not null" json:"-"`
	FullName     string     `gorm:"column:full_name;type:varchar(255)" json:"full_name"`
	DateOfBirth  *time.Time `gorm:"column:date_of_birth;type:date" json:"date_of_birth"`
	IsParentUser bool       `gorm:"column:is_parent_user;not null;default:false" json:"is_parent_user"`
	ParentID     *string    `gorm:"column:parent_id;type:varchar(36);index" json:"parent_id"`
	Parent       *User      `gorm:"foreignKey:ParentID;constraint:OnDelete:SET NULL" json:"-"`
	IDCardImage  string     `gorm:"column:id_card_image;type:varchar(512)" json:"id_card_image"`
	Address      string     `gorm:"column:address;type:text" json:"address"`
	FaceIDImage  string     `gorm:"column:face_id_image;type:varchar(512)" json:"face_id_image"`
	IsActive     bool       `gorm:"column:is_active;not null;default:true" json:"is_active"`
	IsStaff      bool       `gorm:"column:is_staff;not null;default:false" json:"is_staff"`
	IsSuperuser  bool       `gorm:"column:is_superuser;not null;default:false" json:"is_superuser"`
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "app_user"
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = tool.GenerateUUIDV7()
	}
	return nil
}

// DisplayName prefers the full name and falls back to the first identifier set.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.FullName != "" {
		return u.FullName
	}
	for _, s := range []*string{u.Email, u.Phone, u.CCCD} {
		if s != nil && *s != "" {
			return *s
		}
	}
	return u.ID
}

// MissingProfileFields lists the profile fields a user must fill in before
// buying. An empty result means the profile is complete.
func (u *User) MissingProfileFields() []string {
	var missing []string
	if u.Phone == nil || *u.Phone == "" {
		missing = append(missing, "phone")
	}
	if u.Email == nil || *u.Email == "" {
		missing = append(missing, "email")
	}
	if u.Address == "" {
		missing = append(missing, "address")
	}
	if u.FaceIDImage == "" {
		missing = append(missing, "face_id_image")
	}
	return missing
}

func (u *User) ProfileComplete() bool {
	return len(u.MissingProfileFields()) == 0
}

// IsConsultant reports whether u may be picked to handle consultations.
func (u *User) IsConsultant() bool {
	return u.IsStaff && u.IsActive && !u.IsSuperuser
}

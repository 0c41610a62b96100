package account

import (
	"time"

	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain"
	"github.com/google/uuid"
)

type Gender string

const (
	GenderNotSelected Gender = "Not Selected"
	GenderMale        Gender = "Male"
	GenderFemale      Gender = "Female"
	GenderOther       Gender = "Other"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderNotSelected, GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// Account is a patient profile. Accounts are created by self-registration
// and are never hard-deleted.
type Account struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Name         string `gorm:"column:name;type:varchar(150);not null"`
	Email        string `gorm:"column:email;type:varchar(255);uniqueIndex;not null"`
	PasswordHash string `gorm:"column:password_hash;type:varchar(255);not null"`

	Phone       string         `gorm:"column:phone;type:varchar(20);default:'0000000000'"`
	Gender      Gender         `gorm:"column:gender;type:varchar(20);default:'Not Selected'"`
	DateOfBirth string         `gorm:"column:dob;type:varchar(20);default:'Not Selected'"`
	Address     domain.Address `gorm:"column:address;type:jsonb"`
	Image       string         `gorm:"column:image;type:text"`
}

func (Account) TableName() string {
	return "clinic.accounts"
}

// Summary is the slice of an account joined into appointment listings.
type Summary struct {
	ID          uuid.UUID
	Name        string
	Email       string
	Phone       string
	Image       string
	DateOfBirth string
	Gender      Gender
}

func (a *Account) Summary() Summary {
	return Summary{
		ID:          a.ID,
		Name:        a.Name,
		Email:       a.Email,
		Phone:       a.Phone,
		Image:       a.Image,
		DateOfBirth: a.DateOfBirth,
		Gender:      a.Gender,
	}
}

type RegisterCommand struct {
	Name     string
	Email    string
	Password string
}

// UpdateProfileCommand replaces the self-service fields. Image is the new
// image URL and is left untouched when empty, as is a nil Address.
type UpdateProfileCommand struct {
	Name        string
	Phone       string
	Address     *domain.Address
	DateOfBirth string
	Gender      Gender
	Image       string
}

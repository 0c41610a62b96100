package operator

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrOperatorNotFound = errors.New("operator not found")

const RoleSuperAdmin = "superadmin"

// Operator rows are seeded from configuration, never created through the API.
type Operator struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Email        string `gorm:"column:email;type:varchar(255);uniqueIndex;not null"`
	PasswordHash string `gorm:"column:password_hash;type:varchar(255);not null"`
	Role         string `gorm:"column:role;type:varchar(30);not null;default:'superadmin'"`
}

func (Operator) TableName() string {
	return "auth.operators"
}

type Repository interface {
	Create(ctx context.Context, o *Operator) error
	GetByEmail(ctx context.Context, email string) (*Operator, error)
}

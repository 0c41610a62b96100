package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain/operator"
	"gorm.io/gorm"
)

type OperatorRepository struct {
	db *gorm.DB
}

func NewOperatorRepository(db *gorm.DB) *OperatorRepository {
	return &OperatorRepository{db: db}
}

func (r *OperatorRepository) Create(ctx context.Context, o *operator.Operator) error {
	if err := r.db.WithContext(ctx).Create(o).Error; err != nil {
		return fmt.Errorf("inserting operator: %w", err)
	}
	return nil
}

func (r *OperatorRepository) GetByEmail(ctx context.Context, email string) (*operator.Operator, error) {
	var o operator.Operator
	if err := r.db.WithContext(ctx).First(&o, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, operator.ErrOperatorNotFound
		}
		return nil, fmt.Errorf("loading operator: %w", err)
	}
	return &o, nil
}

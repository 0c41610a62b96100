package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain/account"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, a *account.Account) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return account.ErrEmailTaken
		}
		return fmt.Errorf("inserting account: %w", err)
	}
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	var a account.Account
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, account.ErrAccountNotFound
		}
		return nil, fmt.Errorf("loading account: %w", err)
	}
	return &a, nil
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	var a account.Account
	if err := r.db.WithContext(ctx).First(&a, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, account.ErrAccountNotFound
		}
		return nil, fmt.Errorf("loading account by email: %w", err)
	}
	return &a, nil
}

func (r *AccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&account.Account{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return false, fmt.Errorf("counting accounts by email: %w", err)
	}
	return n > 0, nil
}

func (r *AccountRepository) UpdateProfile(ctx context.Context, id uuid.UUID, cmd *account.UpdateProfileCommand) (*account.Account, error) {
	updates := map[string]any{
		"name":   cmd.Name,
		"phone":  cmd.Phone,
		"dob":    cmd.DateOfBirth,
		"gender": cmd.Gender,
	}
	if cmd.Address != nil {
		updates["address"] = *cmd.Address
	}
	if cmd.Image != "" {
		updates["image"] = cmd.Image
	}

	res := r.db.WithContext(ctx).Model(&account.Account{ID: id}).Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("updating account: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, account.ErrAccountNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *AccountRepository) GetMany(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*account.Account, error) {
	out := make(map[uuid.UUID]*account.Account, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []*account.Account
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("loading accounts: %w", err)
	}
	for _, a := range rows {
		out[a.ID] = a
	}
	return out, nil
}

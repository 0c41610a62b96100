package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain/practitioner"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PractitionerRepository struct {
	db *gorm.DB
}

func NewPractitionerRepository(db *gorm.DB) *PractitionerRepository {
	return &PractitionerRepository{db: db}
}

func (r *PractitionerRepository) Create(ctx context.Context, p *practitioner.Practitioner) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return practitioner.ErrEmailTaken
		}
		return fmt.Errorf("inserting practitioner: %w", err)
	}
	return nil
}

func (r *PractitionerRepository) GetByID(ctx context.Context, id uuid.UUID) (*practitioner.Practitioner, error) {
	var p practitioner.Practitioner
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, practitioner.ErrPractitionerNotFound
		}
		return nil, fmt.Errorf("loading practitioner: %w", err)
	}
	return &p, nil
}

func (r *PractitionerRepository) GetByEmail(ctx context.Context, email string) (*practitioner.Practitioner, error) {
	var p practitioner.Practitioner
	if err := r.db.WithContext(ctx).First(&p, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, practitioner.ErrPractitionerNotFound
		}
		return nil, fmt.Errorf("loading practitioner by email: %w", err)
	}
	return &p, nil
}

func (r *PractitionerRepository) List(ctx context.Context) ([]*practitioner.Practitioner, error) {
	var rows []*practitioner.Practitioner
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing practitioners: %w", err)
	}
	return rows, nil
}

func (r *PractitionerRepository) Update(ctx context.Context, id uuid.UUID, cmd *practitioner.UpdatePractitionerCommand) (*practitioner.Practitioner, error) {
	updates := map[string]any{}
	if cmd.Name != nil {
		updates["name"] = *cmd.Name
	}
	if cmd.Email != nil {
		updates["email"] = *cmd.Email
	}
	if cmd.Phone != nil {
		updates["phone"] = *cmd.Phone
	}
	if cmd.Speciality != nil {
		updates["speciality"] = *cmd.Speciality
	}
	if cmd.Degree != nil {
		updates["degree"] = *cmd.Degree
	}
	if cmd.Experience != nil {
		updates["experience"] = *cmd.Experience
	}
	if cmd.About != nil {
		updates["about"] = *cmd.About
	}
	if cmd.Fees != nil {
		updates["fees"] = *cmd.Fees
	}
	if cmd.Address != nil {
		updates["address"] = *cmd.Address
	}
	if cmd.Image != nil {
		updates["image"] = *cmd.Image
	}
	if cmd.Available != nil {
		updates["available"] = *cmd.Available
	}

	if len(updates) == 0 {
		return r.GetByID(ctx, id)
	}

	res := r.db.WithContext(ctx).Model(&practitioner.Practitioner{ID: id}).Updates(updates)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return nil, practitioner.ErrEmailTaken
		}
		return nil, fmt.Errorf("updating practitioner: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, practitioner.ErrPractitionerNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *PractitionerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&practitioner.Practitioner{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("deleting practitioner: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return practitioner.ErrPractitionerNotFound
	}
	return nil
}

func (r *PractitionerRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&practitioner.Practitioner{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("counting practitioners: %w", err)
	}
	return n, nil
}

func (r *PractitionerRepository) GetMany(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*practitioner.Practitioner, error) {
	out := make(map[uuid.UUID]*practitioner.Practitioner, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []*practitioner.Practitioner
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("loading practitioners: %w", err)
	}
	for _, p := range rows {
		out[p.ID] = p
	}
	return out, nil
}

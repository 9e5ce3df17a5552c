package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"nobzo-blog/internal/model"
)

type PostEventRepository struct {
	db *gorm.DB
}

func NewPostEventRepository(db *gorm.DB) *PostEventRepository {
	return &PostEventRepository{db: db}
}

func (r *PostEventRepository) Create(ctx context.Context, event *model.PostEvent) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("create post event failed: %w", err)
	}
	return nil
}

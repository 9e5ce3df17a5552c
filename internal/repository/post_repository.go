package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"nobzo-blog/internal/model"
)

// PostFilter is the store-level predicate for a post listing. Soft-deleted
// posts are always excluded by gorm's default scope.
type PostFilter struct {
	AuthorID *uint
	Statuses []model.PostStatus
	Search   string
	Tag      string
	Offset   int
	Limit    int
}

// likeEscaper makes LIKE wildcards in search text match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, post *model.Post) error {
	if err := r.db.WithContext(ctx).Omit("Author").Create(post).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &DuplicateError{Field: "slug"}
		}
		return fmt.Errorf("create post failed: %w", err)
	}
	return nil
}

// Update writes the editable columns of post. When replaceTags is set the
// stored tag list is swapped for post.Tags in the same transaction. A post
// that was soft-deleted in the meantime yields ErrNotFound.
func (r *PostRepository) Update(ctx context.Context, post *model.Post, replaceTags bool) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(post).Omit(clause.Associations).
			Select("title", "slug", "content", "status").
			Updates(post)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if !replaceTags {
			return nil
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&model.PostTag{}).Error; err != nil {
			return err
		}
		if len(post.Tags) == 0 {
			return nil
		}
		for i := range post.Tags {
			post.Tags[i].ID = 0
			post.Tags[i].PostID = post.ID
		}
		return tx.Create(&post.Tags).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &DuplicateError{Field: "slug"}
		}
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("update post failed: %w", err)
	}
	return nil
}

// SoftDelete stamps deleted_at and touches nothing else.
func (r *PostRepository) SoftDelete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&model.Post{}, id).Error; err != nil {
		return fmt.Errorf("soft delete post failed: %w", err)
	}
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id uint) (*model.Post, error) {
	var post model.Post
	if err := r.withRelations(r.db.WithContext(ctx)).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get post failed: %w", err)
	}
	return &post, nil
}

func (r *PostRepository) GetPublishedBySlug(ctx context.Context, slug string) (*model.Post, error) {
	var post model.Post
	err := r.withRelations(r.db.WithContext(ctx)).
		Where("slug = ? AND status = ?", slug, model.PostStatusPublished).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get post by slug failed: %w", err)
	}
	return &post, nil
}

// List returns one page of posts matching filter, newest first, plus the
// total number of matches ignoring Offset and Limit.
func (r *PostRepository) List(ctx context.Context, filter PostFilter) ([]model.Post, int64, error) {
	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count posts failed: %w", err)
	}

	var posts []model.Post
	q := r.withRelations(r.filtered(ctx, filter)).
		Order("created_at DESC").
		Order("id DESC").
		Offset(filter.Offset)
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if err := q.Find(&posts).Error; err != nil {
		return nil, 0, fmt.Errorf("list posts failed: %w", err)
	}
	return posts, total, nil
}

func (r *PostRepository) filtered(ctx context.Context, filter PostFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Post{})

	if filter.Search != "" {
		if r.db.Dialector.Name() == "mysql" {
			q = q.Where("MATCH(title, content) AGAINST (? IN NATURAL LANGUAGE MODE)", filter.Search)
		} else {
			like := "%" + likeEscaper.Replace(filter.Search) + "%"
			q = q.Where(`(title LIKE ? ESCAPE '\' OR content LIKE ? ESCAPE '\')`, like, like)
		}
	}
	if filter.Tag != "" {
		tagged := r.db.WithContext(ctx).Model(&model.PostTag{}).Select("post_id").Where("name = ?", filter.Tag)
		q = q.Where("id IN (?)", tagged)
	}
	if filter.AuthorID != nil {
		q = q.Where("author_id = ?", *filter.AuthorID)
	}
	switch len(filter.Statuses) {
	case 0:
	case 1:
		q = q.Where("status = ?", filter.Statuses[0])
	default:
		q = q.Where("status IN ?", filter.Statuses)
	}
	return q
}

func (r *PostRepository) withRelations(q *gorm.DB) *gorm.DB {
	return q.Preload("Author").Preload("Tags", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

package app

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"nobzo-blog/internal/model"
	"nobzo-blog/internal/pkg/slug"
	"nobzo-blog/internal/repository"
	"nobzo-blog/internal/validation"
)

// PostEventPublisher delivers post activity events asynchronously.
type PostEventPublisher interface {
	Publish(ctx context.Context, event model.PostEvent) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, model.PostEvent) error { return nil }

type PostService struct {
	postRepo  *repository.PostRepository
	publisher PostEventPublisher
	now       func() time.Time
}

type CreatePostInput struct {
	Title   string   `json:"title" validate:"required,max=255"`
	Content string   `json:"content" validate:"required"`
	Status  string   `json:"status" validate:"omitempty,oneof=draft published"`
	Tags    []string `json:"tags" validate:"omitempty,max=20,dive,required,max=64"`
}

// UpdatePostInput carries a partial update; nil fields are left untouched.
type UpdatePostInput struct {
	Title   *string   `json:"title" validate:"omitempty,min=1,max=255"`
	Content *string   `json:"content" validate:"omitempty,min=1"`
	Status  *string   `json:"status" validate:"omitempty,oneof=draft published"`
	Tags    *[]string `json:"tags" validate:"omitempty,max=20,dive,required,max=64"`
}

// Normalize trims tag names so blank tags fail validation.
func (in *CreatePostInput) Normalize() {
	trimTags(in.Tags)
}

func (in *UpdatePostInput) Normalize() {
	if in.Tags != nil {
		trimTags(*in.Tags)
	}
}

type PostPage struct {
	Posts []model.Post
	Total int64
	Page  int
	Limit int
	Pages int
}

func NewPostService(postRepo *repository.PostRepository, publisher PostEventPublisher) *PostService {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &PostService{
		postRepo:  postRepo,
		publisher: publisher,
		now:       time.Now,
	}
}

// Create stores a new post authored by actor. A slug collision is reported as
// ErrSlugExists; there is no retry with a suffix.
func (s *PostService) Create(ctx context.Context, actor Identity, input CreatePostInput) (*model.Post, error) {
	postSlug, err := slugFor(input.Title)
	if err != nil {
		return nil, err
	}

	status := model.PostStatus(input.Status)
	if status == "" {
		status = model.PostStatusDraft
	}

	post := &model.Post{
		Title:    input.Title,
		Slug:     postSlug,
		Content:  input.Content,
		AuthorID: actor.UserID,
		Status:   status,
	}
	post.SetTags(input.Tags)

	if err := s.postRepo.Create(ctx, post); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrSlugExists
		}
		return nil, err
	}

	created, err := s.postRepo.GetByID(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, created.ID, actor.UserID, model.PostActionCreated)
	return created, nil
}

func (s *PostService) Update(ctx context.Context, actor Identity, id uint, input UpdatePostInput) (*model.Post, error) {
	post, err := s.ownedPost(ctx, actor, id, "update")
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		postSlug, err := slugFor(*input.Title)
		if err != nil {
			return nil, err
		}
		post.Title = *input.Title
		post.Slug = postSlug
	}
	if input.Content != nil {
		post.Content = *input.Content
	}
	if input.Status != nil {
		post.Status = model.PostStatus(*input.Status)
	}
	if input.Tags != nil {
		post.SetTags(*input.Tags)
	}

	if err := s.postRepo.Update(ctx, post, input.Tags != nil); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrSlugExists
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrPostNotFound
		default:
			return nil, err
		}
	}

	updated, err := s.postRepo.GetByID(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrPostNotFound
	}
	s.publish(ctx, updated.ID, actor.UserID, model.PostActionUpdated)
	return updated, nil
}

// Delete soft-deletes the post; the row stays in the store.
func (s *PostService) Delete(ctx context.Context, actor Identity, id uint) error {
	post, err := s.ownedPost(ctx, actor, id, "delete")
	if err != nil {
		return err
	}
	if err := s.postRepo.SoftDelete(ctx, post.ID); err != nil {
		return err
	}
	s.publish(ctx, post.ID, actor.UserID, model.PostActionDeleted)
	return nil
}

// GetBySlug returns a published, non-deleted post.
func (s *PostService) GetBySlug(ctx context.Context, postSlug string) (*model.Post, error) {
	post, err := s.postRepo.GetPublishedBySlug(ctx, postSlug)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

// List returns one page of the posts viewer may see. viewer is nil for
// anonymous requests.
func (s *PostService) List(ctx context.Context, viewer *Identity, q ListQuery) (*PostPage, error) {
	filter := VisibilityFilter(viewer, q)
	posts, total, err := s.postRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &PostPage{
		Posts: posts,
		Total: total,
		Page:  q.Page,
		Limit: q.Limit,
		Pages: int((total + int64(q.Limit) - 1) / int64(q.Limit)),
	}, nil
}

func (s *PostService) ownedPost(ctx context.Context, actor Identity, id uint, action string) (*model.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	if post.AuthorID != actor.UserID {
		return nil, &ForbiddenError{Action: action}
	}
	return post, nil
}

// publish never fails the request: the mutation is already committed.
func (s *PostService) publish(ctx context.Context, postID, actorID uint, action model.PostAction) {
	event := model.PostEvent{
		PostID:     postID,
		ActorID:    actorID,
		Action:     action,
		OccurredAt: s.now(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Printf("publish post event failed: post=%d action=%s: %v", postID, action, err)
	}
}

func slugFor(title string) (string, error) {
	s := slug.Make(title)
	if s == "" {
		return "", validation.NewError("title", "Title must contain at least one letter or digit")
	}
	return s, nil
}

func trimTags(tags []string) {
	for i, tag := range tags {
		tags[i] = strings.TrimSpace(tag)
	}
}

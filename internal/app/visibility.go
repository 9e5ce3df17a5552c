package app

import (
	"strconv"

	"nobzo-blog/internal/model"
	"nobzo-blog/internal/repository"
	"nobzo-blog/internal/validation"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	MaxPage      = 1000000
)

// ListPostsInput is the raw listing query as it arrives from the caller.
type ListPostsInput struct {
	Page   int    `form:"page,default=1" validate:"min=1,max=1000000"`
	Limit  int    `form:"limit,default=10" validate:"min=1,max=100"`
	Search string `form:"search" validate:"max=200"`
	Tag    string `form:"tag" validate:"max=64"`
	Author string `form:"author" validate:"omitempty,number"`
	Status string `form:"status" validate:"omitempty,oneof=draft published"`
}

// ListQuery is a validated listing request.
type ListQuery struct {
	Page     int
	Limit    int
	Search   string
	Tag      string
	AuthorID *uint
	Status   *model.PostStatus
}

// Query converts a validated input into its typed form.
func (in ListPostsInput) Query() (ListQuery, error) {
	q := ListQuery{
		Page:   in.Page,
		Limit:  in.Limit,
		Search: in.Search,
		Tag:    in.Tag,
	}
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if in.Author != "" {
		id, err := strconv.ParseUint(in.Author, 10, 0)
		if err != nil || id == 0 {
			return ListQuery{}, validation.NewError("author", "Author must be a valid user id")
		}
		authorID := uint(id)
		q.AuthorID = &authorID
	}
	if in.Status != "" {
		status := model.PostStatus(in.Status)
		q.Status = &status
	}
	return q, nil
}

// VisibilityFilter maps a listing request and the requester, if any, onto the
// store predicate. Rules, in order:
//   - with no author given, an authenticated requester targets their own posts;
//   - anonymous requesters only ever see published posts;
//   - status=draft always means the requester's own drafts, whatever author was asked for;
//   - status=published means published posts of the target author (or all authors);
//   - no status on one's own posts yields drafts and published posts together;
//   - no status on someone else's posts yields published posts only.
func VisibilityFilter(viewer *Identity, q ListQuery) repository.PostFilter {
	filter := repository.PostFilter{
		Search: q.Search,
		Tag:    q.Tag,
		Offset: (q.Page - 1) * q.Limit,
		Limit:  q.Limit,
	}

	target := q.AuthorID
	if target == nil && viewer != nil {
		self := viewer.UserID
		target = &self
	}
	filter.AuthorID = target

	published := []model.PostStatus{model.PostStatusPublished}
	switch {
	case viewer == nil:
		filter.Statuses = published
	case q.Status != nil && *q.Status == model.PostStatusDraft:
		self := viewer.UserID
		filter.AuthorID = &self
		filter.Statuses = []model.PostStatus{model.PostStatusDraft}
	case q.Status != nil:
		filter.Statuses = published
	case *target == viewer.UserID:
		filter.Statuses = []model.PostStatus{model.PostStatusDraft, model.PostStatusPublished}
	default:
		filter.Statuses = published
	}
	return filter
}

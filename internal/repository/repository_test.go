package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"nobzo-blog/internal/model"
	"nobzo-blog/internal/platform/sqlite"
	"nobzo-blog/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := sqlite.New(context.Background(), ":memory:", logger.Silent)
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func createUser(t *testing.T, repo *repository.UserRepository, email string) *model.User {
	t.Helper()
	user := &model.User{Name: "User " + email, Email: email, PasswordHash: "hash"}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func createPost(t *testing.T, repo *repository.PostRepository, author *model.User, title string, status model.PostStatus, createdAt time.Time, tags ...string) *model.Post {
	t.Helper()
	post := &model.Post{
		Title:     title,
		Slug:      fmt.Sprintf("%s-%d", title, createdAt.UnixNano()),
		Content:   "content of " + title,
		AuthorID:  author.ID,
		Status:    status,
		CreatedAt: createdAt,
	}
	post.SetTags(tags)
	require.NoError(t, repo.Create(context.Background(), post))
	return post
}

func uintPtr(v uint) *uint { return &v }

func TestUserRepository(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	user := createUser(t, repo, "alice@example.com")
	assert.NotZero(t, user.ID)

	t.Run("get by email", func(t *testing.T) {
		got, err := repo.GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("unknown email returns nil", func(t *testing.T) {
		got, err := repo.GetByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("get by id", func(t *testing.T) {
		got, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "alice@example.com", got.Email)

		missing, err := repo.GetByID(ctx, user.ID+100)
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("duplicate email", func(t *testing.T) {
		err := repo.Create(ctx, &model.User{Name: "Other", Email: "alice@example.com", PasswordHash: "hash"})
		require.ErrorIs(t, err, repository.ErrDuplicate)

		var dup *repository.DuplicateError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "email", dup.Field)
		assert.Equal(t, "email already exists", err.Error())
	})
}

func TestPostRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	users := repository.NewUserRepository(db)
	posts := repository.NewPostRepository(db)
	ctx := context.Background()

	author := createUser(t, users, "author@example.com")
	post := createPost(t, posts, author, "hello", model.PostStatusPublished, time.Now(), "go", "api", "backend")

	got, err := posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, author.Email, got.Author.Email)
	assert.Equal(t, []string{"go", "api", "backend"}, got.TagNames())

	bySlug, err := posts.GetPublishedBySlug(ctx, post.Slug)
	require.NoError(t, err)
	require.NotNil(t, bySlug)
	assert.Equal(t, post.ID, bySlug.ID)

	t.Run("duplicate slug", func(t *testing.T) {
		dup := &model.Post{Title: "again", Slug: post.Slug, Content: "x", AuthorID: author.ID, Status: model.PostStatusDraft}
		err := posts.Create(ctx, dup)
		var dupErr *repository.DuplicateError
		require.ErrorAs(t, err, &dupErr)
		assert.Equal(t, "slug", dupErr.Field)
	})

	t.Run("drafts are hidden from slug lookup", func(t *testing.T) {
		draft := createPost(t, posts, author, "draft", model.PostStatusDraft, time.Now())
		got, err := posts.GetPublishedBySlug(ctx, draft.Slug)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestPostRepository_Update(t *testing.T) {
	db := newTestDB(t)
	users := repository.NewUserRepository(db)
	posts := repository.NewPostRepository(db)
	ctx := context.Background()

	author := createUser(t, users, "author@example.com")
	post := createPost(t, posts, author, "first", model.PostStatusDraft, time.Now(), "a", "b")
	other := createPost(t, posts, author, "second", model.PostStatusDraft, time.Now())

	t.Run("fields without touching tags", func(t *testing.T) {
		post.Title = "First edited"
		post.Content = "new content"
		require.NoError(t, posts.Update(ctx, post, false))

		got, err := posts.GetByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, "First edited", got.Title)
		assert.Equal(t, "new content", got.Content)
		assert.Equal(t, []string{"a", "b"}, got.TagNames())
	})

	t.Run("replace tags keeps order", func(t *testing.T) {
		post.SetTags([]string{"z", "y", "x"})
		require.NoError(t, posts.Update(ctx, post, true))

		got, err := posts.GetByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"z", "y", "x"}, got.TagNames())

		var count int64
		require.NoError(t, db.Model(&model.PostTag{}).Where("post_id = ?", post.ID).Count(&count).Error)
		assert.EqualValues(t, 3, count)
	})

	t.Run("slug collision", func(t *testing.T) {
		post.Slug = other.Slug
		err := posts.Update(ctx, post, false)
		assert.ErrorIs(t, err, repository.ErrDuplicate)
	})

	t.Run("deleted post", func(t *testing.T) {
		require.NoError(t, posts.SoftDelete(ctx, other.ID))
		other.Title = "ghost"
		err := posts.Update(ctx, other, false)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestPostRepository_SoftDelete(t *testing.T) {
	db := newTestDB(t)
	users := repository.NewUserRepository(db)
	posts := repository.NewPostRepository(db)
	ctx := context.Background()

	author := createUser(t, users, "author@example.com")
	post := createPost(t, posts, author, "bye", model.PostStatusPublished, time.Now(), "t")

	require.NoError(t, posts.SoftDelete(ctx, post.ID))

	got, err := posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	bySlug, err := posts.GetPublishedBySlug(ctx, post.Slug)
	require.NoError(t, err)
	assert.Nil(t, bySlug)

	list, total, err := posts.List(ctx, repository.PostFilter{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, total)

	var raw model.Post
	require.NoError(t, db.Unscoped().First(&raw, post.ID).Error)
	assert.True(t, raw.DeletedAt.Valid)
	assert.Equal(t, post.Title, raw.Title)
	assert.Equal(t, post.Slug, raw.Slug)
	assert.Equal(t, model.PostStatusPublished, raw.Status)
}

func TestPostRepository_List(t *testing.T) {
	db := newTestDB(t)
	users := repository.NewUserRepository(db)
	posts := repository.NewPostRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice@example.com")
	bob := createUser(t, users, "bob@example.com")
	base := time.Now().Add(-time.Hour)

	createPost(t, posts, alice, "golang tips", model.PostStatusPublished, base.Add(1*time.Minute), "go")
	createPost(t, posts, alice, "rust notes", model.PostStatusDraft, base.Add(2*time.Minute), "rust")
	createPost(t, posts, bob, "go concurrency", model.PostStatusPublished, base.Add(3*time.Minute), "go", "concurrency")
	createPost(t, posts, bob, "bob secret", model.PostStatusDraft, base.Add(4*time.Minute), "go")

	tests := []struct {
		name   string
		filter repository.PostFilter
		want   []string
	}{
		{
			name:   "published only newest first",
			filter: repository.PostFilter{Statuses: []model.PostStatus{model.PostStatusPublished}},
			want:   []string{"go concurrency", "golang tips"},
		},
		{
			name:   "author with both statuses",
			filter: repository.PostFilter{AuthorID: uintPtr(alice.ID), Statuses: []model.PostStatus{model.PostStatusDraft, model.PostStatusPublished}},
			want:   []string{"rust notes", "golang tips"},
		},
		{
			name:   "tag filter",
			filter: repository.PostFilter{Tag: "go", Statuses: []model.PostStatus{model.PostStatusPublished}},
			want:   []string{"go concurrency", "golang tips"},
		},
		{
			name:   "tag and author",
			filter: repository.PostFilter{Tag: "go", AuthorID: uintPtr(bob.ID)},
			want:   []string{"bob secret", "go concurrency"},
		},
		{
			name:   "search title and content",
			filter: repository.PostFilter{Search: "rust"},
			want:   []string{"rust notes"},
		},
		{
			name:   "no match",
			filter: repository.PostFilter{Tag: "python"},
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, total, err := posts.List(ctx, tt.filter)
			require.NoError(t, err)
			titles := make([]string, 0, len(list))
			for _, p := range list {
				titles = append(titles, p.Title)
			}
			assert.Equal(t, tt.want, titles)
			assert.EqualValues(t, len(tt.want), total)
		})
	}
}

func TestPostRepository_ListSearchEscapesWildcards(t *testing.T) {
	db := newTestDB(t)
	users := repository.NewUserRepository(db)
	posts := repository.NewPostRepository(db)
	ctx := context.Background()

	author := createUser(t, users, "author@example.com")
	base := time.Now().Add(-time.Hour)
	createPost(t, posts, author, "50% off", model.PostStatusPublished, base.Add(1*time.Minute))
	createPost(t, posts, author, "500 items", model.PostStatusPublished, base.Add(2*time.Minute))
	createPost(t, posts, author, "snake_case", model.PostStatusPublished, base.Add(3*time.Minute))
	createPost(t, posts, author, "snakeXcase", model.PostStatusPublished, base.Add(4*time.Minute))
	createPost(t, posts, author, `back\slash`, model.PostStatusPublished, base.Add(5*time.Minute))

	tests := []struct {
		search string
		want   []string
	}{
		{search: "%", want: []string{"50% off"}},
		{search: "50%", want: []string{"50% off"}},
		{search: "_", want: []string{"snake_case"}},
		{search: "snake_case", want: []string{"snake_case"}},
		{search: `\`, want: []string{`back\slash`}},
		{search: "50", want: []string{"500 items", "50% off"}},
	}
	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			list, total, err := posts.List(ctx, repository.PostFilter{Search: tt.search})
			require.NoError(t, err)
			titles := make([]string, 0, len(list))
			for _, p := range list {
				titles = append(titles, p.Title)
			}
			assert.Equal(t, tt.want, titles)
			assert.EqualValues(t, len(tt.want), total)
		})
	}
}

func TestPostRepository_ListHonoursContext(t *testing.T) {
	db := newTestDB(t)
	users := repository.NewUserRepository(db)
	posts := repository.NewPostRepository(db)

	author := createUser(t, users, "author@example.com")
	createPost(t, posts, author, "tagged", model.PostStatusPublished, time.Now(), "go")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := posts.List(ctx, repository.PostFilter{Tag: "go"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPostRepository_ListPagination(t *testing.T) {
	db := newTestDB(t)
	users := repository.NewUserRepository(db)
	posts := repository.NewPostRepository(db)
	ctx := context.Background()

	author := createUser(t, users, "author@example.com")
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 25; i++ {
		createPost(t, posts, author, fmt.Sprintf("post %02d", i), model.PostStatusPublished, base.Add(time.Duration(i)*time.Minute))
	}

	list, total, err := posts.List(ctx, repository.PostFilter{Offset: 20, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 25, total)
	require.Len(t, list, 5)
	assert.Equal(t, "post 04", list[0].Title)
	assert.Equal(t, "post 00", list[4].Title)
}

func TestPostEventRepository(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewPostEventRepository(db)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, repo.Create(ctx, &model.PostEvent{PostID: 1, ActorID: 2, Action: model.PostActionCreated, OccurredAt: now}))
	require.NoError(t, repo.Create(ctx, &model.PostEvent{PostID: 1, ActorID: 2, Action: model.PostActionDeleted, OccurredAt: now.Add(time.Second)}))
	require.NoError(t, repo.Create(ctx, &model.PostEvent{PostID: 9, ActorID: 2, Action: model.PostActionCreated, OccurredAt: now}))

	var events []model.PostEvent
	require.NoError(t, db.Where("post_id = ?", 1).Order("occurred_at ASC, id ASC").Find(&events).Error)
	require.Len(t, events, 2)
	assert.Equal(t, model.PostActionCreated, events[0].Action)
	assert.Equal(t, model.PostActionDeleted, events[1].Action)
}

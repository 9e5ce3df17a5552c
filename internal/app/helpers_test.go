package app

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"nobzo-blog/internal/cache"
	"nobzo-blog/internal/model"
	"nobzo-blog/internal/pkg/jwtutil"
	"nobzo-blog/internal/platform/sqlite"
	"nobzo-blog/internal/repository"
)

const testSecret = "test-secret-key"

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

func newTestAuthService(t *testing.T, db *gorm.DB) (*AuthService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redisv9.NewClient(&redisv9.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	svc := NewAuthService(
		repository.NewUserRepository(db),
		cache.NewRevocationCache(client),
		jwtutil.NewManager(testSecret),
	)
	return svc, mr
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.PostEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event model.PostEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) actions() []model.PostAction {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]model.PostAction, len(p.events))
	for i, e := range p.events {
		out[i] = e.Action
	}
	return out
}

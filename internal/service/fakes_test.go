package service

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/journiv/journiv-server/internal/domain/model"
)

// fakeUserRepo is an in-memory UserRepositoryInterface for service tests.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*model.User

	countErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*model.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, _ bson.M, limit, skip int64) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*model.User, 0, len(r.users))
	for _, u := range r.users {
		clone := *u
		all = append(all, &clone)
	}
	if skip >= int64(len(all)) {
		return nil, nil
	}
	all = all[skip:]
	if int64(len(all)) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *fakeUserRepo) Count(_ context.Context) (int64, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func (r *fakeUserRepo) CountByRole(_ context.Context, role string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

// fakeTokenRepo is an in-memory TokenRepositoryInterface for service tests.
type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens []*model.Token
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{}
}

func (r *fakeTokenRepo) Create(_ context.Context, token *model.Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *token
	clone.CreatedAt = time.Now()
	r.tokens = append(r.tokens, &clone)
	return nil
}

func (r *fakeTokenRepo) FindByToken(_ context.Context, tokenString string) (*model.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.Token == tokenString {
			clone := *t
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeTokenRepo) DeleteByToken(_ context.Context, tokenString string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.tokens[:0]
	for _, t := range r.tokens {
		if t.Token != tokenString {
			kept = append(kept, t)
		}
	}
	r.tokens = kept
	return nil
}

func (r *fakeTokenRepo) DeleteByUserID(_ context.Context, userID primitive.ObjectID, tokenType string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.tokens[:0]
	for _, t := range r.tokens {
		if t.UserID == userID && t.Type == tokenType {
			continue
		}
		kept = append(kept, t)
	}
	r.tokens = kept
	return nil
}

func (r *fakeTokenRepo) IsBlacklisted(_ context.Context, tokenString string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.Token == tokenString && t.Type == "blacklist" {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeTokenRepo) CleanupExpired(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	kept := r.tokens[:0]
	for _, t := range r.tokens {
		if now.After(t.ExpiresAt) {
			continue
		}
		kept = append(kept, t)
	}
	r.tokens = kept
	return nil
}

func (r *fakeTokenRepo) countByType(tokenType string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int
	for _, t := range r.tokens {
		if t.Type == tokenType {
			n++
		}
	}
	return n
}

func testTokenService(tokenRepo *fakeTokenRepo) TokenService {
	return NewTokenService(tokenRepo, TokenConfig{
		SecretKey:        "test-access-secret",
		RefreshSecretKey: "test-refresh-secret",
		AccessTokenTTL:   15 * time.Minute,
		RefreshTokenTTL:  7 * 24 * time.Hour,
	})
}

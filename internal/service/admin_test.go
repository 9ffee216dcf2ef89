package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/journiv/journiv-server/internal/domain/dto"
	"github.com/journiv/journiv-server/internal/domain/model"
)

type adminFixture struct {
	svc       AdminService
	userRepo  *fakeUserRepo
	tokenRepo *fakeTokenRepo
}

func newAdminFixture() *adminFixture {
	userRepo := newFakeUserRepo()
	tokenRepo := newFakeTokenRepo()
	return &adminFixture{
		svc:       NewAdminService(userRepo, testTokenService(tokenRepo), &sync.Mutex{}),
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
	}
}

func (f *adminFixture) seedUser(t *testing.T, email, role string) *model.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &model.User{
		Email:    email,
		Password: string(hashed),
		Role:     role,
		Active:   true,
	}
	require.NoError(t, f.userRepo.Create(context.Background(), user))
	return user
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestAdminService_DeleteUser(t *testing.T) {
	ctx := context.Background()

	t.Run("deleting the only admin is blocked", func(t *testing.T) {
		f := newAdminFixture()
		admin := f.seedUser(t, "admin@example.com", model.RoleAdmin)
		f.seedUser(t, "user@example.com", model.RoleUser)

		err := f.svc.DeleteUser(ctx, admin.ID)
		assert.ErrorIs(t, err, ErrLastAdmin)

		remaining, err := f.userRepo.CountByRole(ctx, model.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, int64(1), remaining)
	})

	t.Run("deleting an admin with another remaining succeeds", func(t *testing.T) {
		f := newAdminFixture()
		first := f.seedUser(t, "first@example.com", model.RoleAdmin)
		f.seedUser(t, "second@example.com", model.RoleAdmin)

		require.NoError(t, f.svc.DeleteUser(ctx, first.ID))

		remaining, err := f.userRepo.CountByRole(ctx, model.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, int64(1), remaining)
	})

	t.Run("deleting a regular user never trips the guard", func(t *testing.T) {
		f := newAdminFixture()
		f.seedUser(t, "admin@example.com", model.RoleAdmin)
		user := f.seedUser(t, "user@example.com", model.RoleUser)

		require.NoError(t, f.svc.DeleteUser(ctx, user.ID))
	})

	t.Run("deletion revokes refresh tokens", func(t *testing.T) {
		f := newAdminFixture()
		f.seedUser(t, "admin@example.com", model.RoleAdmin)
		user := f.seedUser(t, "user@example.com", model.RoleUser)

		ts := testTokenService(f.tokenRepo)
		_, err := ts.GenerateTokenPair(ctx, user)
		require.NoError(t, err)
		require.Equal(t, 1, f.tokenRepo.countByType("refresh"))

		require.NoError(t, f.svc.DeleteUser(ctx, user.ID))
		assert.Equal(t, 0, f.tokenRepo.countByType("refresh"))
	})

	t.Run("unknown user returns not found", func(t *testing.T) {
		f := newAdminFixture()
		err := f.svc.DeleteUser(ctx, primitive.NewObjectID())
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestAdminService_UpdateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("demoting the only admin is blocked", func(t *testing.T) {
		f := newAdminFixture()
		admin := f.seedUser(t, "admin@example.com", model.RoleAdmin)

		_, err := f.svc.UpdateUser(ctx, admin.ID, dto.UpdateUserRequest{Role: strPtr(model.RoleUser)})
		assert.ErrorIs(t, err, ErrLastAdmin)

		stored, err := f.userRepo.FindByID(ctx, admin.ID)
		require.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, stored.Role)
	})

	t.Run("demoting with another admin remaining succeeds", func(t *testing.T) {
		f := newAdminFixture()
		first := f.seedUser(t, "first@example.com", model.RoleAdmin)
		f.seedUser(t, "second@example.com", model.RoleAdmin)

		updated, err := f.svc.UpdateUser(ctx, first.ID, dto.UpdateUserRequest{Role: strPtr(model.RoleUser)})
		require.NoError(t, err)
		assert.Equal(t, model.RoleUser, updated.Role)
	})

	t.Run("re-asserting the admin role is not a demotion", func(t *testing.T) {
		f := newAdminFixture()
		admin := f.seedUser(t, "admin@example.com", model.RoleAdmin)

		updated, err := f.svc.UpdateUser(ctx, admin.ID, dto.UpdateUserRequest{Role: strPtr(model.RoleAdmin)})
		require.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, updated.Role)
	})

	t.Run("promoting a user works with a single admin", func(t *testing.T) {
		f := newAdminFixture()
		f.seedUser(t, "admin@example.com", model.RoleAdmin)
		user := f.seedUser(t, "user@example.com", model.RoleUser)

		updated, err := f.svc.UpdateUser(ctx, user.ID, dto.UpdateUserRequest{Role: strPtr(model.RoleAdmin)})
		require.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, updated.Role)
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		f := newAdminFixture()
		user := f.seedUser(t, "user@example.com", model.RoleUser)

		_, err := f.svc.UpdateUser(ctx, user.ID, dto.UpdateUserRequest{Role: strPtr("superuser")})
		assert.ErrorIs(t, err, ErrInvalidRole)
	})

	t.Run("partial update leaves untouched fields alone", func(t *testing.T) {
		f := newAdminFixture()
		user := f.seedUser(t, "user@example.com", model.RoleUser)

		updated, err := f.svc.UpdateUser(ctx, user.ID, dto.UpdateUserRequest{Name: strPtr("New Name")})
		require.NoError(t, err)
		assert.Equal(t, "New Name", updated.Name)
		assert.Equal(t, model.RoleUser, updated.Role)
		assert.True(t, updated.Active)
	})

	t.Run("deactivation revokes refresh tokens", func(t *testing.T) {
		f := newAdminFixture()
		f.seedUser(t, "admin@example.com", model.RoleAdmin)
		user := f.seedUser(t, "user@example.com", model.RoleUser)

		ts := testTokenService(f.tokenRepo)
		_, err := ts.GenerateTokenPair(ctx, user)
		require.NoError(t, err)

		updated, err := f.svc.UpdateUser(ctx, user.ID, dto.UpdateUserRequest{Active: boolPtr(false)})
		require.NoError(t, err)
		assert.False(t, updated.Active)
		assert.Equal(t, 0, f.tokenRepo.countByType("refresh"))
	})

	t.Run("deactivating the only admin is allowed", func(t *testing.T) {
		// The guard protects role and existence, not the active flag
		f := newAdminFixture()
		admin := f.seedUser(t, "admin@example.com", model.RoleAdmin)

		updated, err := f.svc.UpdateUser(ctx, admin.ID, dto.UpdateUserRequest{Active: boolPtr(false)})
		require.NoError(t, err)
		assert.False(t, updated.Active)
	})

	t.Run("password update rehashes", func(t *testing.T) {
		f := newAdminFixture()
		user := f.seedUser(t, "user@example.com", model.RoleUser)
		before := user.Password

		updated, err := f.svc.UpdateUser(ctx, user.ID, dto.UpdateUserRequest{Password: strPtr("newpassword1")})
		require.NoError(t, err)
		assert.NotEqual(t, before, updated.Password)
		assert.NotEqual(t, "newpassword1", updated.Password)
	})

	t.Run("unknown user returns not found", func(t *testing.T) {
		f := newAdminFixture()
		_, err := f.svc.UpdateUser(ctx, primitive.NewObjectID(), dto.UpdateUserRequest{Name: strPtr("x")})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestAdminService_CreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to the user role", func(t *testing.T) {
		f := newAdminFixture()
		user, err := f.svc.CreateUser(ctx, dto.CreateUserRequest{
			Email:    "new@example.com",
			Password: "password123",
		})
		require.NoError(t, err)
		assert.Equal(t, model.RoleUser, user.Role)
		assert.True(t, user.Active)
	})

	t.Run("explicit admin role is honored", func(t *testing.T) {
		f := newAdminFixture()
		user, err := f.svc.CreateUser(ctx, dto.CreateUserRequest{
			Email:    "new@example.com",
			Password: "password123",
			Role:     model.RoleAdmin,
		})
		require.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, user.Role)
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		f := newAdminFixture()
		_, err := f.svc.CreateUser(ctx, dto.CreateUserRequest{
			Email:    "new@example.com",
			Password: "password123",
			Role:     "root",
		})
		assert.ErrorIs(t, err, ErrInvalidRole)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		f := newAdminFixture()
		f.seedUser(t, "taken@example.com", model.RoleUser)

		_, err := f.svc.CreateUser(ctx, dto.CreateUserRequest{
			Email:    "taken@example.com",
			Password: "password123",
		})
		assert.ErrorIs(t, err, ErrUserExists)
	})
}

func TestAdminService_ListUsers(t *testing.T) {
	ctx := context.Background()

	f := newAdminFixture()
	f.seedUser(t, "a@example.com", model.RoleAdmin)
	f.seedUser(t, "b@example.com", model.RoleUser)
	f.seedUser(t, "c@example.com", model.RoleUser)

	t.Run("returns users and total", func(t *testing.T) {
		users, total, err := f.svc.ListUsers(ctx, 10, 0)
		require.NoError(t, err)
		assert.Len(t, users, 3)
		assert.Equal(t, int64(3), total)
	})

	t.Run("limit bounds the page, total is unaffected", func(t *testing.T) {
		users, total, err := f.svc.ListUsers(ctx, 2, 0)
		require.NoError(t, err)
		assert.Len(t, users, 2)
		assert.Equal(t, int64(3), total)
	})

	t.Run("out of range limits fall back to the default", func(t *testing.T) {
		users, _, err := f.svc.ListUsers(ctx, -1, 0)
		require.NoError(t, err)
		assert.Len(t, users, 3)

		users, _, err = f.svc.ListUsers(ctx, 5000, 0)
		require.NoError(t, err)
		assert.Len(t, users, 3)
	})
}

func TestAdminService_GetUser(t *testing.T) {
	ctx := context.Background()

	f := newAdminFixture()
	user := f.seedUser(t, "user@example.com", model.RoleUser)

	got, err := f.svc.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	_, err = f.svc.GetUser(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

package service

import (
	"context"
	"testing"

	"arch-market-go/internal/model"
	"arch-market-go/internal/repository"
	"arch-market-go/pkg/token"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeUserRepository 用内存 map 模拟用户表。
type fakeUserRepository struct {
	nextID uint
	byID   map[uint]*model.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{nextID: 1, byID: map[uint]*model.User{}}
}

func (f *fakeUserRepository) Create(user *model.User) error {
	user.ID = f.nextID
	f.nextID++
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUserRepository) FindByEmail(email string) (*model.User, error) {
	for _, user := range f.byID {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) FindByID(id uint) (*model.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepository) Update(user *model.User) error {
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUserRepository) FindAll() ([]model.User, error) { return nil, nil }

func (f *fakeUserRepository) CountByRole(model.Role) (int64, error) { return 0, nil }

func newTestAuthService(t *testing.T) AuthService {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	jwtManager := token.NewJWTManager("test-secret", 1, 7)
	return NewAuthService(newFakeUserRepository(), repository.NewTokenDenylist(client), jwtManager)
}

func TestRegisterIssuesTokensImmediately(t *testing.T) {
	svc := newTestAuthService(t)

	user, pair, err := svc.Register("Lin", "lin@example.com", "secret", model.RoleClient)
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, model.RoleClient, user.Role)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	// 密码不得以明文入库
	assert.NotEqual(t, "secret", user.Password)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := newTestAuthService(t)

	_, _, err := svc.Register("Lin", "lin@example.com", "secret", model.RoleClient)
	require.NoError(t, err)

	_, _, err = svc.Register("别的 Lin", "lin@example.com", "other", model.RoleArchitect)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginVerifiesPassword(t *testing.T) {
	svc := newTestAuthService(t)

	_, _, err := svc.Register("Lin", "lin@example.com", "secret", model.RoleClient)
	require.NoError(t, err)

	user, pair, err := svc.Login("lin@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "lin@example.com", user.Email)
	assert.NotEmpty(t, pair.AccessToken)

	_, _, err = svc.Login("lin@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login("nobody@example.com", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogoutDeniesToken(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	_, pair, err := svc.Register("Lin", "lin@example.com", "secret", model.RoleClient)
	require.NoError(t, err)

	denied, err := svc.TokenDenied(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.False(t, denied)

	require.NoError(t, svc.Logout(ctx, pair.AccessToken))

	denied, err = svc.TokenDenied(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.True(t, denied)
}

func TestLogoutIgnoresInvalidToken(t *testing.T) {
	svc := newTestAuthService(t)

	// 无效 token 的登出视为成功
	assert.NoError(t, svc.Logout(context.Background(), "not-a-jwt"))
}

func TestRefreshTokenIssuesNewPair(t *testing.T) {
	svc := newTestAuthService(t)

	_, pair, err := svc.Register("Lin", "lin@example.com", "secret", model.RoleClient)
	require.NoError(t, err)

	fresh, err := svc.RefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)
	assert.NotEmpty(t, fresh.RefreshToken)

	_, err = svc.RefreshToken("not-a-jwt")
	assert.Error(t, err)
}

package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"arch-market-go/internal/model"
	"arch-market-go/pkg/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeResolver 模拟后端身份解析端点。
type fakeResolver struct {
	identity *model.Identity
	err      error
	calls    int
}

func (f *fakeResolver) Me(ctx context.Context, token string) (*model.Identity, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.identity, nil
}

func seededStore(t *testing.T, token string) Store {
	t.Helper()
	store := NewMemoryStore()
	require.NoError(t, store.Set(State{Token: token}))
	return store
}

func TestGuardNoCredentialRedirectsToLogin(t *testing.T) {
	store := NewMemoryStore()
	resolver := &fakeResolver{}
	guard := newGuardWithResolver(store, resolver)

	result, err := guard.Resolve(context.Background(), model.RoleClient)
	require.NoError(t, err)

	assert.Equal(t, OutcomeRedirect, result.Outcome)
	assert.Equal(t, LoginRoute, result.RedirectTo)
	// 无凭证路径不应触发任何后端调用
	assert.Zero(t, resolver.calls)
}

func TestGuardInvalidCredentialClearsStore(t *testing.T) {
	store := seededStore(t, "expired-token")
	guard := newGuardWithResolver(store, &fakeResolver{err: api.ErrUnauthorized})

	result, err := guard.Resolve(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, OutcomeRedirect, result.Outcome)
	assert.Equal(t, LoginRoute, result.RedirectTo)

	state, err := store.Get()
	require.NoError(t, err)
	assert.True(t, state.Empty(), "失效凭证必须从存储中清除")
}

func TestGuardRoleMismatchRedirectsToOwnDashboard(t *testing.T) {
	store := seededStore(t, "tok")
	guard := newGuardWithResolver(store, &fakeResolver{
		identity: &model.Identity{ID: 7, Role: "Architect", FullName: "Mies", Email: "m@v.d"},
	})

	result, err := guard.Resolve(context.Background(), model.RoleClient)
	require.NoError(t, err)

	assert.Equal(t, OutcomeRedirect, result.Outcome)
	assert.Equal(t, "/dashboard/architect", result.RedirectTo)
}

func TestGuardRoleMatchIsCaseInsensitive(t *testing.T) {
	store := seededStore(t, "tok")
	guard := newGuardWithResolver(store, &fakeResolver{
		identity: &model.Identity{ID: 7, Role: "architect", FullName: "Mies", Email: "m@v.d"},
	})

	result, err := guard.Resolve(context.Background(), model.RoleArchitect)
	require.NoError(t, err)
	assert.True(t, result.Authorized())
}

func TestGuardAuthorizedRefreshesStoredIdentity(t *testing.T) {
	store := seededStore(t, "tok")
	identity := &model.Identity{ID: 3, Role: "Client", FullName: "Ada", Email: "ada@x.y"}
	guard := newGuardWithResolver(store, &fakeResolver{identity: identity})

	result, err := guard.Resolve(context.Background(), model.RoleClient)
	require.NoError(t, err)

	require.True(t, result.Authorized())
	assert.Equal(t, "tok", result.Credential)
	assert.Equal(t, identity, result.Identity)

	state, err := store.Get()
	require.NoError(t, err)
	assert.Equal(t, "Client", state.Role)
	assert.Equal(t, "ada@x.y", state.Email)
	assert.Equal(t, "Ada", state.FullName)
}

func TestGuardUnknownRoleTreatedAsInvalidSession(t *testing.T) {
	store := seededStore(t, "tok")
	guard := newGuardWithResolver(store, &fakeResolver{
		identity: &model.Identity{ID: 9, Role: "superuser"},
	})

	result, err := guard.Resolve(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, OutcomeRedirect, result.Outcome)
	assert.Equal(t, LoginRoute, result.RedirectTo)

	state, err := store.Get()
	require.NoError(t, err)
	assert.True(t, state.Empty())
}

// TestGuardAgainstHTTPBackend 走真实的 api.Client 与 httptest 后端，
// 覆盖 401 与畸形响应两条失败路径。
func TestGuardAgainstHTTPBackend(t *testing.T) {
	t.Run("401 clears store and redirects", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		store := seededStore(t, "bad")
		guard := NewGuard(store, api.NewClient(srv.URL))

		result, err := guard.Resolve(context.Background(), model.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, LoginRoute, result.RedirectTo)

		state, _ := store.Get()
		assert.True(t, state.Empty())
	})

	t.Run("malformed envelope redirects to login", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))
		defer srv.Close()

		store := seededStore(t, "tok")
		guard := NewGuard(store, api.NewClient(srv.URL))

		result, err := guard.Resolve(context.Background(), "")
		require.NoError(t, err)
		assert.Equal(t, OutcomeRedirect, result.Outcome)
		assert.Equal(t, LoginRoute, result.RedirectTo)
	})
}

func TestLogoutTwiceIsIdempotent(t *testing.T) {
	store := seededStore(t, "tok")

	route, err := Logout(store)
	require.NoError(t, err)
	assert.Equal(t, LoginRoute, route)

	state, _ := store.Get()
	assert.True(t, state.Empty())

	route, err = Logout(store)
	require.NoError(t, err)
	assert.Equal(t, LoginRoute, route)

	state, _ = store.Get()
	assert.True(t, state.Empty())
}

func TestLandingRouteFor(t *testing.T) {
	assert.Equal(t, "/dashboard/architect/overview", LandingRouteFor("architect"))
	assert.Equal(t, "/dashboard/client", LandingRouteFor("client"))
	assert.Equal(t, "/dashboard/admin", LandingRouteFor("Admin"))
	assert.Equal(t, "/", LandingRouteFor("intruder"))
}

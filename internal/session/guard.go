package session

import (
	"context"

	"arch-market-go/internal/model"
	"arch-market-go/pkg/api"
	"arch-market-go/pkg/log"
)

// LoginRoute 是所有认证失败路径的统一去向。
const LoginRoute = "/auth/login"

// Outcome 表示守卫判定的终态。
type Outcome int

const (
	// OutcomeAuthorized 表示凭证有效且角色匹配，可以渲染受保护内容
	OutcomeAuthorized Outcome = iota
	// OutcomeRedirect 表示必须跳转到 RedirectTo，当前入口不渲染任何内容
	OutcomeRedirect
)

// Result 是一次守卫判定的结果。
// 每次判定恰好产出两种终态之一：要么持有已解析的身份与凭证，要么携带跳转目标。
type Result struct {
	Outcome    Outcome
	Identity   *model.Identity
	Credential string
	RedirectTo string
}

// Authorized 判断结果是否允许继续。
func (r Result) Authorized() bool {
	return r.Outcome == OutcomeAuthorized
}

// identityResolver 是守卫对后端的最小依赖，便于测试替换。
type identityResolver interface {
	Me(ctx context.Context, token string) (*model.Identity, error)
}

// Guard 在每次进入受保护入口时，用存储的凭证向后端换取当前身份，
// 并依据期望角色决定放行或跳转。身份永远以后端为准，不信任本地缓存。
type Guard struct {
	store    Store
	resolver identityResolver
}

// NewGuard 创建一个会话守卫。
func NewGuard(store Store, client *api.Client) *Guard {
	return &Guard{store: store, resolver: client}
}

// newGuardWithResolver 供测试注入假的身份解析端。
func newGuardWithResolver(store Store, resolver identityResolver) *Guard {
	return &Guard{store: store, resolver: resolver}
}

// Resolve 执行一次守卫判定。
// expectedRole 为空字符串时只要求已认证，不约束角色。
// 所有失败路径都以跳转结束，守卫自身从不重试。
func (g *Guard) Resolve(ctx context.Context, expectedRole model.Role) (Result, error) {
	state, err := g.store.Get()
	if err != nil {
		return Result{}, err
	}

	// 1. 无凭证：直接去登录页，不触碰存储
	if state.Empty() {
		return Result{Outcome: OutcomeRedirect, RedirectTo: LoginRoute}, nil
	}

	// 2. 用凭证向后端解析当前身份
	identity, err := g.resolver.Me(ctx, state.Token)
	if err != nil {
		// 网络错误、401、畸形响应一律按凭证失效处理：清掉本地会话再去登录页
		log.Warnf("session guard: identity lookup failed: %v", err)
		if clearErr := g.store.Clear(); clearErr != nil {
			return Result{}, clearErr
		}
		return Result{Outcome: OutcomeRedirect, RedirectTo: LoginRoute}, nil
	}

	resolvedRole, err := model.ParseRole(identity.Role)
	if err != nil {
		// 后端返回了枚举之外的角色：按失效会话处理而不是静默放行
		log.Warnf("session guard: backend returned unknown role %q", identity.Role)
		if clearErr := g.store.Clear(); clearErr != nil {
			return Result{}, clearErr
		}
		return Result{Outcome: OutcomeRedirect, RedirectTo: LoginRoute}, nil
	}

	// 3. 角色约束：不匹配时跳到解析出的角色自己的工作台
	if expectedRole != "" && !resolvedRole.Equals(string(expectedRole)) {
		return Result{Outcome: OutcomeRedirect, RedirectTo: resolvedRole.DashboardRoute()}, nil
	}

	// 4. 放行：刷新存储中的身份快照（凭证不变，最后写入者获胜）
	state.Role = identity.Role
	state.Email = identity.Email
	state.FullName = identity.FullName
	state.User = identity
	if err := g.store.Set(state); err != nil {
		return Result{}, err
	}

	return Result{
		Outcome:    OutcomeAuthorized,
		Identity:   identity,
		Credential: state.Token,
	}, nil
}

// Logout 清空会话并返回登录页路由。重复登出是幂等的。
func Logout(store Store) (string, error) {
	if err := store.Clear(); err != nil {
		return "", err
	}
	return LoginRoute, nil
}

// LandingRouteFor 返回登录成功后应当落地的路由。
// 未知角色落地首页并记录告警，绝不落入任何工作台。
func LandingRouteFor(roleValue string) string {
	role, err := model.ParseRole(roleValue)
	if err != nil {
		log.Warnf("login landing: unknown role %q, falling back to /", roleValue)
		return "/"
	}
	return role.LandingRoute()
}

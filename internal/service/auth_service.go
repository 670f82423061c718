// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"errors"
	"time"

	"arch-market-go/internal/model"
	"arch-market-go/internal/repository"
	"arch-market-go/pkg/hash"
	"arch-market-go/pkg/token"

	"gorm.io/gorm"
)

var (
	// ErrEmailTaken 表示注册邮箱已被占用。
	ErrEmailTaken = errors.New("邮箱已被注册")
	// ErrInvalidCredentials 表示登录凭证不正确。
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// TokenPair 是一次签发的 access/refresh token 组合。
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthService 接口定义了所有与认证和用户身份相关的业务操作。
type AuthService interface {
	Register(fullName, email, password string, role model.Role) (*model.User, *TokenPair, error)
	Login(email, password string) (*model.User, *TokenPair, error)
	GetUser(id uint) (*model.User, error)
	Logout(ctx context.Context, tokenString string) error
	TokenDenied(ctx context.Context, tokenString string) (bool, error)
	RefreshToken(refreshTokenString string) (*TokenPair, error)
}

// authService 是 AuthService 接口的实现。
type authService struct {
	userRepo   repository.UserRepository
	denylist   repository.TokenDenylist
	jwtManager *token.JWTManager
}

// NewAuthService 创建一个新的 AuthService 实例。
func NewAuthService(userRepo repository.UserRepository, denylist repository.TokenDenylist, jwtManager *token.JWTManager) AuthService {
	return &authService{
		userRepo:   userRepo,
		denylist:   denylist,
		jwtManager: jwtManager,
	}
}

// Register 处理用户注册的业务逻辑，成功后直接签发 token，
// 让新用户无需二次登录。
func (s *authService) Register(fullName, email, password string, role model.Role) (*model.User, *TokenPair, error) {
	// 1. 检查邮箱是否已被占用
	_, err := s.userRepo.FindByEmail(email)
	if err == nil {
		return nil, nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	// 2. 对密码进行哈希处理
	hashedPassword, err := hash.HashPassword(password)
	if err != nil {
		return nil, nil, err
	}

	// 3. 创建新用户
	newUser := &model.User{
		FullName: fullName,
		Email:    email,
		Password: hashedPassword,
		Role:     role,
	}
	if err := s.userRepo.Create(newUser); err != nil {
		return nil, nil, err
	}

	pair, err := s.issueTokens(newUser)
	if err != nil {
		return nil, nil, err
	}
	return newUser, pair, nil
}

// Login 处理用户登录的业务逻辑。
func (s *authService) Login(email, password string) (*model.User, *TokenPair, error) {
	// 1. 查找用户
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	// 2. 验证密码
	if !hash.CheckPasswordHash(password, user.Password) {
		return nil, nil, ErrInvalidCredentials
	}

	// 3. 签发 access token 和 refresh token
	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// GetUser 根据用户 ID 获取用户详细信息。
func (s *authService) GetUser(id uint) (*model.User, error) {
	return s.userRepo.FindByID(id)
}

// Logout 处理用户登出逻辑，将 token 加入黑名单。
// token 的剩余有效期将作为黑名单条目的过期时间。
func (s *authService) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.jwtManager.VerifyToken(tokenString)
	if err != nil {
		// 已失效的 token 登出视为成功，保证登出的幂等性
		return nil
	}
	return s.denylist.Add(ctx, tokenString, time.Until(claims.ExpiresAt.Time))
}

// TokenDenied 判断 token 是否已因登出而进入黑名单。
func (s *authService) TokenDenied(ctx context.Context, tokenString string) (bool, error) {
	return s.denylist.Contains(ctx, tokenString)
}

// RefreshToken 校验 refresh token 并签发一对新 token。
func (s *authService) RefreshToken(refreshTokenString string) (*TokenPair, error) {
	claims, err := s.jwtManager.VerifyToken(refreshTokenString)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	return s.issueTokens(user)
}

func (s *authService) issueTokens(user *model.User) (*TokenPair, error) {
	accessToken, err := s.jwtManager.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/taskcomply/obrigacoes-service/internal/entity"
	"github.com/taskcomply/obrigacoes-service/internal/infrastructure/auth"
	"github.com/taskcomply/obrigacoes-service/internal/repository"
)

type AuthService struct {
	userRepo         repository.IUserRepository
	refreshTokenRepo repository.IRefreshTokenRepository
	passwordManager  *auth.PasswordManager
	jwtManager       *auth.JWTManager
}

func NewAuthService(
	userRepo repository.IUserRepository,
	refreshTokenRepo repository.IRefreshTokenRepository,
	passwordManager *auth.PasswordManager,
	jwtManager *auth.JWTManager,
) *AuthService {
	return &AuthService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		passwordManager:  passwordManager,
		jwtManager:       jwtManager,
	}
}

// Register - cria o usuário já vinculado a tenant, papel e área
func (s *AuthService) Register(ctx context.Context, req *entity.RegisterRequest) (*entity.LoginResponse, error) {
	if req.TenantID <= 0 {
		return nil, entity.NewValidationError("tenant_id", "tenant é obrigatório")
	}
	if req.Email == "" {
		return nil, entity.NewValidationError("email", "email é obrigatório")
	}
	if len(req.Password) < 8 {
		return nil, entity.NewValidationError("password", "senha deve ter pelo menos 8 caracteres")
	}
	if req.Role == "" {
		req.Role = entity.RoleResponsavel
	}

	// Email não pode repetir
	existingUser, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, entity.NewValidationError("email", "já existe usuário com este email")
	}

	passwordHash, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.Create(ctx, &entity.User{
		TenantID:     req.TenantID,
		Nome:         req.Nome,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         req.Role,
		Area:         req.Area,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issueTokens(ctx, user)
}

// Login - autentica e emite o par de tokens
func (s *AuthService) Login(ctx context.Context, req *entity.LoginRequest) (*entity.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil || !user.IsActive {
		return nil, entity.ErrInvalidCredentials
	}

	if !s.passwordManager.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, entity.ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

// Refresh - troca um refresh token válido por um novo par, revogando o antigo
func (s *AuthService) Refresh(ctx context.Context, req *entity.RefreshTokenRequest) (*entity.RefreshTokenResponse, error) {
	userID, _, err := s.jwtManager.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, entity.ErrInvalidCredentials
	}

	// O hash precisa existir e estar vigente no banco
	tokenHash := s.hashToken(req.RefreshToken)
	stored, err := s.refreshTokenRepo.GetByHash(ctx, tokenHash)
	if err != nil {
		return nil, fmt.Errorf("failed to look up refresh token: %w", err)
	}
	if stored == nil || stored.UserID != userID {
		return nil, entity.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil || !user.IsActive {
		return nil, entity.ErrInvalidCredentials
	}

	// Rotação: o token usado é revogado
	if err := s.refreshTokenRepo.Revoke(ctx, tokenHash); err != nil {
		return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	response, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	return &entity.RefreshTokenResponse{
		AccessToken:  response.AccessToken,
		RefreshToken: response.RefreshToken,
	}, nil
}

// Impersonate - admin obtém um token somente-leitura escopado em outro tenant
func (s *AuthService) Impersonate(ctx context.Context, session *entity.Session, targetTenantID int) (string, error) {
	if session == nil || session.Role != entity.RoleAdministrador || session.Impersonating {
		return "", entity.ErrForbidden
	}

	user, err := s.userRepo.GetByID(ctx, session.ActorID)
	if err != nil {
		return "", fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return "", entity.ErrUserNotFound
	}

	return s.jwtManager.GenerateImpersonationToken(user, targetTenantID)
}

func (s *AuthService) issueTokens(ctx context.Context, user *entity.User) (*entity.LoginResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	// Guardamos só o hash do refresh token
	expiresAt := time.Now().Add(7 * 24 * time.Hour)
	if err := s.refreshTokenRepo.Save(ctx, user.ID, s.hashToken(refreshToken), expiresAt); err != nil {
		return nil, fmt.Errorf("failed to save refresh token: %w", err)
	}

	// Atualizamos last_login
	updates := make(map[string]interface{})
	updates["last_login"] = time.Now()
	if _, err := s.userRepo.Update(ctx, user.ID, updates); err != nil {
		return nil, fmt.Errorf("failed to update last_login: %w", err)
	}

	return &entity.LoginResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *AuthService) hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

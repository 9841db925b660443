package auth

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/taskcomply/obrigacoes-service/internal/entity"
)

type JWTManager struct {
	secretKey string
}

func NewJWTManager() *JWTManager {
	secretKey := os.Getenv("JWT_SECRET_KEY")
	if secretKey == "" {
		secretKey = "your-secret-key-change-in-production" // default para desenvolvimento
	}
	return &JWTManager{
		secretKey: secretKey,
	}
}

// GenerateAccessToken - access token de 15 minutos com a identidade da sessão
func (m *JWTManager) GenerateAccessToken(user *entity.User) (string, error) {
	return m.signAccessClaims(user.ID, user.TenantID, user.Email, user.Role, user.Area, false)
}

// GenerateImpersonationToken - token somente-leitura de admin apontando para
// outro tenant; o guard rejeita qualquer mutação enquanto ele estiver ativo
func (m *JWTManager) GenerateImpersonationToken(admin *entity.User, targetTenantID int) (string, error) {
	if admin.Role != entity.RoleAdministrador {
		return "", entity.ErrForbidden
	}
	return m.signAccessClaims(admin.ID, targetTenantID, admin.Email, admin.Role, admin.Area, true)
}

func (m *JWTManager) signAccessClaims(userID, tenantID int, email string, role entity.Role, area string, impersonating bool) (string, error) {
	claims := jwt.MapClaims{
		"user_id":       userID,
		"tenant_id":     tenantID,
		"email":         email,
		"role":          string(role),
		"area":          area,
		"impersonating": impersonating,
		"exp":           time.Now().Add(15 * time.Minute).Unix(),
		"iat":           time.Now().Unix(),
		"type":          "access",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(m.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// GenerateRefreshToken - refresh token de 7 dias
func (m *JWTManager) GenerateRefreshToken(userID int, email string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"exp":     time.Now().Add(7 * 24 * time.Hour).Unix(),
		"iat":     time.Now().Unix(),
		"type":    "refresh",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(m.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return tokenString, nil
}

// ValidateAccessToken - valida o token e devolve a sessão já autenticada
func (m *JWTManager) ValidateAccessToken(tokenString string) (*entity.Session, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.secretKey), nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	if tokenType, _ := claims["type"].(string); tokenType != "access" {
		return nil, fmt.Errorf("token is not an access token")
	}

	userID, _ := claims["user_id"].(float64)
	tenantID, _ := claims["tenant_id"].(float64)
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	area, _ := claims["area"].(string)
	impersonating, _ := claims["impersonating"].(bool)

	return &entity.Session{
		ActorID:       int(userID),
		TenantID:      int(tenantID),
		Email:         email,
		Role:          entity.Role(role),
		Area:          area,
		Impersonating: impersonating,
	}, nil
}

// ValidateRefreshToken - valida o refresh token e devolve o user_id dele
func (m *JWTManager) ValidateRefreshToken(tokenString string) (int, string, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.secretKey), nil
	})

	if err != nil {
		return 0, "", fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return 0, "", fmt.Errorf("invalid token")
	}

	if tokenType, _ := claims["type"].(string); tokenType != "refresh" {
		return 0, "", fmt.Errorf("token is not a refresh token")
	}

	userID, _ := claims["user_id"].(float64)
	email, _ := claims["email"].(string)

	return int(userID), email, nil
}

package entity

import "time"

type Role string

const (
	RoleResponsavel   Role = "responsavel"
	RoleLider         Role = "lider"
	RoleAdministrador Role = "administrador"
)

type User struct {
	ID           int        `json:"id"`
	TenantID     int        `json:"tenant_id"`
	Nome         string     `json:"nome"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // nunca enviamos o hash para fora
	Role         Role       `json:"role"`
	Area         string     `json:"area"`
	IsActive     bool       `json:"is_active"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Session - identidade já autenticada entregue pelo colaborador de sessão.
// O núcleo nunca valida credenciais; só consome esta struct.
type Session struct {
	ActorID       int    `json:"actor_id"`
	TenantID      int    `json:"tenant_id"`
	Email         string `json:"email"`
	Role          Role   `json:"role"`
	Area          string `json:"area"`
	Impersonating bool   `json:"impersonating"`
}

// Registro
type RegisterRequest struct {
	TenantID int    `json:"tenant_id" validate:"required, min=1"`
	Nome     string `json:"nome" validate:"required, min=1, max=255"`
	Email    string `json:"email" validate:"required, email"`
	Password string `json:"password" validate:"required, min=8, max=255"`
	Role     Role   `json:"role" validate:"oneof=responsavel lider administrador"`
	Area     string `json:"area" validate:"required"`
}

// Login
type LoginRequest struct {
	Email    string `json:"email" validate:"required, email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Refresh Token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/taskcomply/obrigacoes-service/internal/entity"
	"github.com/taskcomply/obrigacoes-service/internal/infrastructure/auth"
)

type contextKey string

const sessionContextKey contextKey = "session"

// SessionMiddleware - extrai a sessão do Bearer token e coloca no contexto.
// Toda a autorização real acontece nos serviços; aqui só autenticamos.
func SessionMiddleware(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "Invalid authorization format", http.StatusUnauthorized)
				return
			}

			session, err := jwtManager.ValidateAccessToken(parts[1])
			if err != nil {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext - sessão autenticada da requisição; nil fora do middleware
func SessionFromContext(ctx context.Context) *entity.Session {
	session, _ := ctx.Value(sessionContextKey).(*entity.Session)
	return session
}

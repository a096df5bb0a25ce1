package middleware

import (
	"context"
	"net/http"
	"strings"

	"plancheck/internal/service"
)

type contextKey string

const (
	ReviewerIDKey contextKey = "reviewerId"
)

// AuthMiddleware provides JWT authentication middleware
type AuthMiddleware struct {
	authSvc *service.AuthService
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(authSvc *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc}
}

// RequireReviewer validates the reviewer JWT from the Authorization
// header, or from the token query param for streaming clients that
// cannot set headers.
func (m *AuthMiddleware) RequireReviewer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if token == "" {
			http.Error(w, `{"error":"missing authorization"}`, http.StatusUnauthorized)
			return
		}

		claims, err := m.authSvc.ValidateToken(token)
		if err != nil {
			http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ReviewerIDKey, claims.ReviewerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetReviewerID extracts the reviewer ID from context
func GetReviewerID(ctx context.Context) string {
	if v := ctx.Value(ReviewerIDKey); v != nil {
		return v.(string)
	}
	return ""
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

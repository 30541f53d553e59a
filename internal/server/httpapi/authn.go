package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"trainhub/internal/common"
	"trainhub/internal/models"
	"trainhub/internal/server/auth"
	"trainhub/internal/server/repositories/users"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

// The push channel is deliberately public: the client dials it right after
// login and the payloads contain nothing the REST surface would not serve.
var publicPaths = []string{
	"/auth/login",
	"/healthz",
	"/readyz",
	"/metrics",
	"/ws",
}

type principalKey struct{}

// PrincipalFromContext returns the authenticated account, if any.
func PrincipalFromContext(ctx context.Context) (*users.StoredUser, bool) {
	p, ok := ctx.Value(principalKey{}).(*users.StoredUser)
	return p, ok
}

func contextWithPrincipal(ctx context.Context, p *users.StoredUser) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions || isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(r.Header.Get(authHeader))
		if err != nil {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}

		username, err := auth.GetUsernameFromToken(token, a.secretKey)
		if err != nil {
			switch {
			case errors.Is(err, common.ErrTokenExpired):
				writeError(w, http.StatusUnauthorized, "token expired")
			default:
				writeError(w, http.StatusUnauthorized, "invalid token")
			}
			return
		}

		principal, err := a.users.GetByUsername(r.Context(), username)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			writeError(w, http.StatusInternalServerError, "authentication error")
			return
		}

		next.ServeHTTP(w, r.WithContext(contextWithPrincipal(r.Context(), principal)))
	})
}

// requireRole returns the principal when it holds one of the given roles,
// writing 401 or 403 otherwise.
func (a *API) requireRole(w http.ResponseWriter, r *http.Request, roles ...models.Role) (*users.StoredUser, bool) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return nil, false
	}
	for _, role := range roles {
		if principal.Role == role {
			return principal, true
		}
	}
	writeError(w, http.StatusForbidden, "not enough permissions")
	return nil, false
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	return false
}

package httpapi

import (
	"context"
	"net/http"
	"strings"

	shared "menugenius/domain"
	"menugenius/token"
)

type claimsKey struct{}

// requirePermission rejects requests without a valid bearer token carrying
// permission: 401 for a missing or bad token, 403 for a missing permission.
func (h *Handler) requirePermission(permission string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, shared.Fail("Authorization header required"))
			return
		}
		claims, err := token.Parse(h.Secret, raw)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, shared.Fail("Invalid or expired session"))
			return
		}
		if !claims.HasPermission(permission) {
			writeJSON(w, http.StatusForbidden, shared.Fail("Missing permission", permission))
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	raw, found := strings.CutPrefix(header, "Bearer ")
	raw = strings.TrimSpace(raw)
	return raw, found && raw != ""
}

// staffName is the username behind an authenticated request, if any.
func staffName(r *http.Request) string {
	if claims, ok := r.Context().Value(claimsKey{}).(*token.Claims); ok {
		return claims.Subject
	}
	return ""
}

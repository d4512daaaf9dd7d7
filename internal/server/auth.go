package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/me/nfisoseq/internal/execution"
	"github.com/me/nfisoseq/pkg/model"
)

const ctxKeyExecutionToken ctxKey = "execution_token"

// ExecutionTokenFromContext returns the token accepted by the auth middleware.
func ExecutionTokenFromContext(ctx context.Context) string {
	if tok, ok := ctx.Value(ctxKeyExecutionToken).(string); ok {
		return tok
	}
	return ""
}

// extractToken parses "Authorization: Latch-Execution-Token <token>".
// The scheme is matched case-insensitively.
func extractToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !ok || !strings.EqualFold(scheme, execution.AuthScheme) {
		return ""
	}
	return strings.TrimSpace(token)
}

// executionTokenMiddleware rejects requests without an execution token.
func executionTokenMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			respondError(w, http.StatusUnauthorized,
				model.NewUnauthorizedError("missing "+execution.AuthScheme+" authorization"))
			return
		}
		ctx := context.WithValue(r.Context(), ctxKeyExecutionToken, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

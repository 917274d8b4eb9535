package http

import (
	"net/http"
	"strings"

	"github.com/dmsconsole/metaform/pkg/domain/model"
	"github.com/dmsconsole/metaform/pkg/usecase"
	"github.com/dmsconsole/metaform/pkg/utils/errutil"
	"github.com/dmsconsole/metaform/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// authMiddleware verifies the bearer token of every request and embeds the
// caller into the request context
func authMiddleware(authUC AuthUseCase) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			// For NoAuthn mode or when authUC is not configured, the token is not checked
			if authUC == nil || authUC.IsNoAuthn() {
				principal := &model.Principal{Subject: "anonymous", Name: "anonymous"}
				if authUC != nil {
					principal, _ = authUC.Verify(ctx, "")
				}
				next.ServeHTTP(w, r.WithContext(model.ContextWithPrincipal(ctx, principal)))
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				errutil.HandleHTTP(ctx, w,
					goerr.Wrap(usecase.ErrUnauthenticated, "Authentication required"),
					http.StatusUnauthorized)
				return
			}

			principal, err := authUC.Verify(ctx, token)
			if err != nil {
				errutil.HandleHTTP(ctx, w,
					goerr.Wrap(err, "Invalid authentication token"),
					http.StatusUnauthorized)
				return
			}

			logger := logging.From(ctx).With("subject", principal.Subject)
			ctx = logging.With(model.ContextWithPrincipal(ctx, principal), logger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

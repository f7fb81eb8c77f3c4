package middleware

import (
	"context"
	"errors"
	"net/http"

	"heritage/auth"
	"heritage/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"
)

// Validator resolves a bearer token to a live admin session.
type Validator interface {
	Validate(ctx context.Context, token string) (auth.Session, error)
}

// Authenticate rejects requests without a valid admin token and stores the
// session in the request context.
func Authenticate(v Validator, log zerolog.Logger) func(httprouter.Handle) httprouter.Handle {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			header := r.Header.Get("Authorization")
			if header == "" {
				utils.RespondWithError(w, http.StatusUnauthorized, "Missing token")
				return
			}
			token, ok := auth.BearerToken(header)
			if !ok {
				utils.RespondWithError(w, http.StatusUnauthorized, "Invalid token format")
				return
			}

			s, err := v.Validate(r.Context(), token)
			if err != nil {
				if !errors.Is(err, auth.ErrInvalidToken) {
					log.Error().Err(err).Msg("session lookup failed")
				}
				utils.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			next(w, r.WithContext(auth.WithSession(r.Context(), s)), ps)
		}
	}
}

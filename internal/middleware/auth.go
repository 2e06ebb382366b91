package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/bookora/be-booking-access/internal/access"
	"github.com/bookora/be-booking-access/internal/service"
	"github.com/bookora/be-booking-access/pkg/apperrors"
	jwtpkg "github.com/bookora/be-booking-access/pkg/jwt"
	"github.com/bookora/be-booking-access/pkg/logger"
)

// TokenValidator is the slice of AuthService the middleware needs.
type TokenValidator interface {
	ValidateToken(tokenString string) (*jwtpkg.Claims, error)
}

// Authenticator turns a Bearer token into an actor snapshot plus its
// resolved capability set, both stored on the request context.
type Authenticator struct {
	tokens      TokenValidator
	assignments service.AssignmentStore
	log         *logger.Logger
}

func NewAuthenticator(tokens TokenValidator, assignments service.AssignmentStore, log *logger.Logger) *Authenticator {
	return &Authenticator{
		tokens:      tokens,
		assignments: assignments,
		log:         log,
	}
}

// Authenticate rejects requests without a valid access token. Operator
// actors additionally get their active service point assignments loaded so
// downstream access checks are pure.
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeAuthError(w, apperrors.Unauthorized("missing bearer token"))
			return
		}

		claims, err := a.tokens.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			a.log.Debug().Err(err).Msg("Token validation failed")
			writeAuthError(w, apperrors.Unauthorized("invalid or expired token"))
			return
		}

		actor := &access.Actor{
			ID:         claims.UserID,
			Role:       access.ParseRole(claims.Role),
			PartnerID:  claims.PartnerID,
			OperatorID: claims.OperatorID,
			ClientID:   claims.ClientID,
		}

		if actor.OperatorID != nil {
			ids, err := a.assignments.ListActiveServicePointIDs(r.Context(), *actor.OperatorID)
			if err != nil {
				a.log.Error().Err(err).Int64("operator_id", *actor.OperatorID).Msg("Failed to load assignments")
				writeAuthError(w, apperrors.Wrap(err, apperrors.CodeInternal, "failed to load operator scope"))
				return
			}
			actor.AssignedServicePointIDs = ids
		}

		ctx := withIdentity(r.Context(), actor, access.Resolve(actor))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Require gates a route on a predicate over the resolved capability set.
func Require(allowed func(access.CapabilitySet) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !allowed(CapabilitiesFrom(r.Context())) {
				writeAuthError(w, apperrors.Forbidden("insufficient permissions"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apperrors.HTTPStatus(err))
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    string(apperrors.CodeOf(err)),
			"message": err.Error(),
		},
	})
}

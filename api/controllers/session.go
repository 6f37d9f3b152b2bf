package controllers

import (
	"net/http"
	"strings"

	"github.com/medinasouk/storefront-backend/api/responses"
	"github.com/medinasouk/storefront-backend/api/validators"
	"github.com/medinasouk/storefront-backend/internal/session"
	"github.com/medinasouk/storefront-backend/internal/shopper"
	pkgerrors "github.com/medinasouk/storefront-backend/pkg/errors"
	"github.com/medinasouk/storefront-backend/pkg/logger"
)

// signInBody mirrors what the external backend returned to the client at
// login. The token is not verified here; it is stored for later backend
// calls and its role claim steers the landing surface.
type signInBody struct {
	User  session.User `json:"user"`
	Token string       `json:"token"`
}

type sessionView struct {
	Authenticated bool          `json:"authenticated"`
	User          *session.User `json:"user,omitempty"`
	LandingPath   string        `json:"landing_path"`
}

func sessionViewOf(s *session.Store) sessionView {
	view := sessionView{LandingPath: s.LandingPath()}
	if user, ok := s.CurrentUser(); ok {
		view.Authenticated = true
		view.User = &user
	}
	return view
}

// SessionState returns the mirrored auth state for the session.
func SessionState(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		containers, err := shopper.FromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, sessionViewOf(containers.Session))
	}
}

// SessionSignIn mirrors a successful backend login into the session.
func SessionSignIn(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		containers, err := shopper.FromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var body signInBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if strings.TrimSpace(body.User.ID) == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "user id is required"))
			return
		}

		containers.Session.SignIn(ctx, body.User, body.Token)
		responses.WriteSuccess(w, sessionViewOf(containers.Session))
	}
}

// SessionSignOut forgets the mirrored identity and token.
func SessionSignOut(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		containers, err := shopper.FromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		containers.Session.SignOut(ctx)
		responses.WriteSuccess(w, sessionViewOf(containers.Session))
	}
}

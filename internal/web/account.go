package web

import (
	"context"
	"net/http"

	"github.com/desertthunder/mise/internal/auth"
	"github.com/desertthunder/mise/internal/models"
	"github.com/desertthunder/mise/internal/shared"
)

type credentials struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

// signIn verifies credentials, honoring the per-IP limiter, and sets the session cookie.
func (a *App) signIn(ctx context.Context, w http.ResponseWriter, r *http.Request, email, password string) (*models.User, error) {
	ip := auth.ClientIP(r, a.trustProxy)
	if !a.limiter.Allow(ip) {
		a.logger.Warn("login rate limited", "ip", ip)
		return nil, shared.ErrTooManyRequests
	}

	user, err := a.accounts.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if err := a.sessions.SignIn(w, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

func (a *App) register(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := decodeJSON(w, r, &body); err != nil {
		a.fail(w, r, err)
		return
	}

	user, err := a.accounts.Register(r.Context(), body.Email, body.DisplayName, body.Password)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	if err := a.sessions.SignIn(w, user.ID); err != nil {
		a.fail(w, r, err)
		return
	}
	a.respond(w, r, http.StatusCreated, user)
}

func (a *App) login(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := decodeJSON(w, r, &body); err != nil {
		a.fail(w, r, err)
		return
	}

	user, err := a.signIn(r.Context(), w, r, body.Email, body.Password)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.respond(w, r, http.StatusOK, user)
}

func (a *App) logout(w http.ResponseWriter, r *http.Request) {
	a.sessions.SignOut(w)
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) me(w http.ResponseWriter, r *http.Request) {
	user, err := a.accounts.CurrentUser(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.respond(w, r, http.StatusOK, user)
}

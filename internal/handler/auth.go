package handler

import (
	"errors"
	"net/http"

	"github.com/msomdec/job-board/internal/domain"
	"github.com/msomdec/job-board/internal/service"
	"github.com/msomdec/job-board/internal/view"
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	auth         *service.AuthService
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{auth: auth, cookieSecure: cookieSecure}
}

// HandleRegisterPage renders the registration form.
func (h *AuthHandler) HandleRegisterPage(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, view.RegisterPage(chrome(w, r), view.RegisterForm{Role: domain.RoleJobSeeker}))
}

// HandleRegister creates the account and sends the user to log in.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	in := service.RegisterInput{
		Username: r.FormValue("username"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
		FullName: r.FormValue("full_name"),
		Role:     domain.Role(r.FormValue("role")),
	}

	_, err := h.auth.Register(r.Context(), in)
	if err != nil {
		form := view.RegisterForm{Username: in.Username, Email: in.Email, FullName: in.FullName, Role: in.Role}
		switch {
		case errors.Is(err, domain.ErrDuplicateUsername):
			form.Error = "Username already exists!"
			render(w, r, http.StatusConflict, view.RegisterPage(chrome(w, r), form))
		case errors.Is(err, domain.ErrDuplicateEmail):
			form.Error = "Email already registered!"
			render(w, r, http.StatusConflict, view.RegisterPage(chrome(w, r), form))
		case errors.Is(err, domain.ErrInvalidInput):
			form.Error = err.Error()
			render(w, r, http.StatusUnprocessableEntity, view.RegisterPage(chrome(w, r), form))
		default:
			serverError(w, r, "register user", err)
		}
		return
	}

	setFlash(w, flashSuccess, "Registration successful! Please log in.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// HandleLoginPage renders the login form.
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, view.LoginPage(chrome(w, r), view.LoginForm{}))
}

// HandleLogin verifies credentials and sets the session cookie.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")

	_, token, err := h.auth.Login(r.Context(), username, r.FormValue("password"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			form := view.LoginForm{Username: username, Error: "Invalid username or password!"}
			render(w, r, http.StatusUnauthorized, view.LoginPage(chrome(w, r), form))
			return
		}
		serverError(w, r, "login user", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.auth.SessionTTL().Seconds()),
	})
	setFlash(w, flashSuccess, "Login successful!")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// HandleLogout ends the server-side session and clears the cookie.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if err := h.auth.Logout(r.Context(), cookie.Value); err != nil {
			serverError(w, r, "logout user", err)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	setFlash(w, flashInfo, "You have been logged out.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

package handlers

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/session"
	"inkwell/internal/store"
)

// totpIssuer names this service in authenticator apps.
const totpIssuer = "Inkwell"

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	sessions  *session.Store
	userStore *store.UserStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions *session.Store, userStore *store.UserStore) *Auth {
	return &Auth{
		sessions:  sessions,
		userStore: userStore,
	}
}

// signupRequest is the POST /api/auth/signup payload.
type signupRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FullName *string `json:"full_name,omitempty"`
}

// loginRequest is the POST /api/auth/login payload.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// sessionResponse describes the signed-in user to the client.
type sessionResponse struct {
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	FullName     string `json:"full_name,omitempty"`
	Role         string `json:"role"`
	TwoFAPending bool   `json:"two_fa_pending"` // admin must complete TOTP before the dashboard
}

func toSessionResponse(sess *session.Data) sessionResponse {
	return sessionResponse{
		UserID:       sess.UserID.String(),
		Email:        sess.Email,
		FullName:     sess.FullName,
		Role:         sess.Role,
		TwoFAPending: sess.IsAdmin() && !sess.TwoFADone,
	}
}

// Signup registers a new account with the "user" role and signs it in.
func (a *Auth) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if msg := validateCredentials(req.Email, req.Password); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	existing, err := a.userStore.FindByEmail(req.Email)
	if err != nil {
		slog.Error("signup lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Something went wrong. Please try again later.")
		return
	}
	if existing != nil {
		respondError(w, http.StatusConflict, "An account with that email already exists.")
		return
	}

	user, err := a.userStore.Create(req.Email, req.Password, req.FullName, models.RoleUser)
	if err != nil {
		slog.Error("signup create failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Something went wrong. Please try again later.")
		return
	}

	sess := sessionData(user)
	if _, err := a.sessions.Create(r.Context(), w, sess); err != nil {
		slog.Error("session create failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Something went wrong. Please try again later.")
		return
	}

	respondJSON(w, http.StatusCreated, toSessionResponse(sess))
}

// Login verifies credentials and opens a session. Admin sessions start
// with 2FA pending; the dashboard stays closed until TOTP verification.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	user, err := a.userStore.FindByEmail(req.Email)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Something went wrong. Please try again later.")
		return
	}
	if user == nil || !a.userStore.CheckPassword(user, req.Password) {
		respondError(w, http.StatusUnauthorized, "Invalid email or password.")
		return
	}

	sess := sessionData(user)
	if _, err := a.sessions.Create(r.Context(), w, sess); err != nil {
		slog.Error("session create failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Something went wrong. Please try again later.")
		return
	}

	respondJSON(w, http.StatusOK, toSessionResponse(sess))
}

// Logout destroys the session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	a.sessions.Destroy(r.Context(), w, r)
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the current session, or 401 when signed out.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, http.StatusUnauthorized, "Not signed in.")
		return
	}
	respondJSON(w, http.StatusOK, toSessionResponse(sess))
}

// twoFASetupResponse carries the enrollment secret. The QR code is a
// base64-encoded PNG of the otpauth URL for authenticator apps.
type twoFASetupResponse struct {
	Secret string `json:"secret"`
	QRCode string `json:"qr_code"`
}

// TwoFASetup generates a TOTP secret for the signed-in admin and returns
// it with an enrollment QR code. Verification completes enrollment.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, http.StatusUnauthorized, "Not signed in.")
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: sess.Email,
	})
	if err != nil {
		slog.Error("totp generate failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Something went wrong. Please try again later.")
		return
	}

	if err := a.userStore.SetTOTPSecret(sess.UserID, key.Secret()); err != nil {
		slog.Error("save totp secret failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Something went wrong. Please try again later.")
		return
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		slog.Error("qr code generation failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Something went wrong. Please try again later.")
		return
	}

	respondJSON(w, http.StatusOK, twoFASetupResponse{
		Secret: key.Secret(),
		QRCode: base64.StdEncoding.EncodeToString(qrPNG),
	})
}

// twoFAVerifyRequest is the POST /api/auth/2fa/verify payload.
type twoFAVerifyRequest struct {
	Code string `json:"code"`
}

// TwoFAVerify validates the TOTP code and marks the session verified.
// On first-time setup it also enables TOTP on the account.
func (a *Auth) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, http.StatusUnauthorized, "Not signed in.")
		return
	}

	var req twoFAVerifyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user, err := a.userStore.FindByID(sess.UserID)
	if err != nil || user == nil {
		slog.Error("user lookup for 2fa failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Something went wrong. Please try again later.")
		return
	}

	if user.TOTPSecret == nil {
		respondError(w, http.StatusBadRequest, "Two-factor authentication has not been set up.")
		return
	}

	if !totp.Validate(req.Code, *user.TOTPSecret) {
		respondError(w, http.StatusUnauthorized, "Invalid code. Please try again.")
		return
	}

	// First successful verification completes enrollment.
	if !user.TOTPEnabled {
		if err := a.userStore.EnableTOTP(user.ID); err != nil {
			slog.Error("enable totp failed", "error", err)
			respondError(w, http.StatusInternalServerError, "Something went wrong. Please try again later.")
			return
		}
	}

	sess.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		slog.Error("session update failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Something went wrong. Please try again later.")
		return
	}

	respondJSON(w, http.StatusOK, toSessionResponse(sess))
}

// sessionData builds the session payload for a user. Non-admin accounts
// skip 2FA entirely, so their sessions start fully verified.
func sessionData(user *models.User) *session.Data {
	fullName := ""
	if user.FullName != nil {
		fullName = *user.FullName
	}
	return &session.Data{
		UserID:    user.ID,
		Email:     user.Email,
		FullName:  fullName,
		Role:      string(user.Role),
		TwoFADone: !user.IsAdmin(),
	}
}

// validateCredentials checks signup inputs and returns the first error
// found, or "" when valid.
func validateCredentials(email, password string) string {
	if email == "" || !strings.Contains(email, "@") || len(email) > 254 {
		return "A valid email address is required."
	}
	if len(password) < 8 {
		return "Password must be at least 8 characters."
	}
	if len(password) > 72 {
		return "Password is too long (max 72 characters)."
	}
	return ""
}

package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"

	"github.com/rs/zerolog/log"

	"bookly/internal/apierr"
	"bookly/internal/auth"
	mailmsg "bookly/internal/mail"
	"bookly/internal/models"
	"bookly/internal/service"
)

type signupRequest struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func (req *signupRequest) validate() *apierr.Error {
	req.Username = strings.TrimSpace(req.Username)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)

	switch {
	case req.Username == "" || len(req.Username) > 50:
		return apierr.BadRequest("username is required and must be at most 50 characters")
	case req.FirstName == "" || len(req.FirstName) > 25:
		return apierr.BadRequest("first_name is required and must be at most 25 characters")
	case req.LastName == "" || len(req.LastName) > 25:
		return apierr.BadRequest("last_name is required and must be at most 25 characters")
	case req.Email == "" || len(req.Email) > 100:
		return apierr.BadRequest("email is required and must be at most 100 characters")
	case len(req.Password) < 6:
		return apierr.BadRequest("password must be at least 6 characters long")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return apierr.BadRequest("email is not a valid address")
	}
	return nil
}

func (a *API) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, apierr.BadRequest("invalid request body"))
		return
	}
	if apiErr := req.validate(); apiErr != nil {
		respondError(w, apiErr)
		return
	}

	exists, err := a.users.ExistsByEmail(r.Context(), req.Email)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	if exists {
		respondError(w, apierr.UserAlreadyExists)
		return
	}

	hash, err := a.hasher.Hash(req.Password)
	if err != nil {
		respondInternal(w, r, err)
		return
	}

	user := models.User{
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         models.RoleUser,
	}
	if err := a.users.Create(r.Context(), &user); err != nil {
		respondInternal(w, r, err)
		return
	}

	emailSent := a.sendVerificationEmail(r, &user)

	userID := user.ID.String()
	a.recordAudit(r.Context(), &user.ID, "user.signup", "user", &userID, map[string]any{"email": user.Email})

	message := "User created successfully. Please check your email to verify your account."
	if !emailSent {
		message = "User created successfully. Email verification is temporarily unavailable."
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"message": message,
		"user":    user,
	})
}

// sendVerificationEmail queues the signup verification mail. Failure is
// non-fatal to the signup transaction.
func (a *API) sendVerificationEmail(r *http.Request, user *models.User) bool {
	if a.mail == nil {
		return false
	}

	token, err := a.users.CreateEmailToken(r.Context(), user, a.emailTokenTTL)
	if err != nil {
		log.Error().Err(err).Msg("create email token failed")
		return false
	}

	link := fmt.Sprintf("%s/api/v1/auth/verify-email?token=%s", a.domain, token.Token)
	msg := mailmsg.VerificationMessage(user.Email, user.FirstName, user.LastName, link)
	if err := a.mail.Enqueue(r.Context(), msg); err != nil {
		log.Error().Err(err).Msg("enqueue verification mail failed")
		return false
	}
	return true
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, apierr.BadRequest("invalid request body"))
		return
	}

	user, err := a.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(w, apierr.InvalidCredentials)
			return
		}
		respondInternal(w, r, err)
		return
	}

	if !a.hasher.Verify(req.Password, user.PasswordHash) {
		respondError(w, apierr.InvalidCredentials)
		return
	}

	identity := auth.Identity{UserID: user.ID, Email: user.Email, Role: user.Role}
	accessToken, err := a.codec.Issue(identity, a.accessTokenTTL, false)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	refreshToken, err := a.codec.Issue(identity, a.refreshTokenTTL, true)
	if err != nil {
		respondInternal(w, r, err)
		return
	}

	userID := user.ID.String()
	a.recordAudit(r.Context(), &user.ID, "user.login", "user", &userID, nil)

	respondJSON(w, http.StatusOK, map[string]any{
		"message":       "Login successful",
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

func (a *API) handleRefreshToken(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, apierr.InvalidToken)
		return
	}

	accessToken, err := a.codec.Issue(claims.Identity, a.accessTokenTTL, false)
	if err != nil {
		respondInternal(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message":      "Access token refreshed successfully",
		"access_token": accessToken,
	})
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		respondError(w, apierr.InvalidToken)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, apierr.InvalidToken)
		return
	}

	if err := a.blocklist.Revoke(r.Context(), claims.ID); err != nil {
		respondInternal(w, r, err)
		return
	}

	a.recordAudit(r.Context(), &claims.Identity.UserID, "user.logout", "user", nil, nil)

	respondJSON(w, http.StatusOK, map[string]any{"message": "Logout successful"})
}

func (a *API) handleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		respondError(w, apierr.BadRequest("token query parameter is required"))
		return
	}

	user, err := a.users.ConsumeEmailToken(r.Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(w, apierr.BadRequest("invalid or expired token"))
			return
		}
		respondInternal(w, r, err)
		return
	}

	if err := a.users.UpdateFields(r.Context(), user, map[string]any{"is_verified": true}); err != nil {
		respondInternal(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"message": "Email verified successfully"})
}

func (a *API) handleResetPasswordRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, apierr.BadRequest("invalid request body"))
		return
	}

	user, err := a.users.GetByEmail(r.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(w, apierr.UserNotFound)
			return
		}
		respondInternal(w, r, err)
		return
	}

	token, err := a.users.CreateResetToken(r.Context(), user, a.emailTokenTTL)
	if err != nil {
		respondInternal(w, r, err)
		return
	}

	if a.mail != nil {
		link := fmt.Sprintf("%s/api/v1/auth/reset-password?token=%s", a.domain, token.Token)
		msg := mailmsg.PasswordResetMessage(user.Email, user.FirstName, link)
		if err := a.mail.Enqueue(r.Context(), msg); err != nil {
			log.Error().Err(err).Msg("enqueue reset mail failed")
		}
	}

	respondJSON(w, http.StatusOK, map[string]any{"message": "Password reset link has been sent to your email."})
}

func (a *API) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		respondError(w, apierr.BadRequest("token query parameter is required"))
		return
	}

	var req struct {
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, apierr.BadRequest("invalid request body"))
		return
	}
	if len(req.Password) < 6 {
		respondError(w, apierr.BadRequest("password must be at least 6 characters long"))
		return
	}

	user, err := a.users.ConsumeResetToken(r.Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(w, apierr.BadRequest("invalid or expired token"))
			return
		}
		respondInternal(w, r, err)
		return
	}

	hash, err := a.hasher.Hash(req.Password)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	if err := a.users.UpdateFields(r.Context(), user, map[string]any{"password_hash": hash}); err != nil {
		respondInternal(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"message": "Password has been reset successfully"})
}

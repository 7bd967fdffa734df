// filepath: internal/api/handlers/auth_handler.go
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"medialocker/internal/logging"
)

// credentialsRequest is the JSON body for login and registration.
type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginResponse is returned on successful authentication.
type loginResponse struct {
	AccessToken string `json:"access_token"`
	UserID      int64  `json:"user_id"`
	Username    string `json:"username"`
	Role        string `json:"role"`
	ExpiresIn   int64  `json:"expires_in"`
}

// registerResponse is returned for a freshly created account.
type registerResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// @Summary Log in
// @Description Exchange a username/password pair for a bearer token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body credentialsRequest true "Credentials"
// @Success 200 {object} loginResponse
// @Failure 400 {object} ErrorResponse "Invalid request body"
// @Failure 401 {object} ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.User.Verify(req.Username, req.Password)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	token, expiresAt, err := h.Token.Issue(user)
	if err != nil {
		logging.Log.Errorf("Login: token issue failed for %s: %v", user.Username, err)
		respondWithError(w, http.StatusInternalServerError, "Could not issue token")
		return
	}

	respondWithJSON(w, http.StatusOK, loginResponse{
		AccessToken: token,
		UserID:      user.ID,
		Username:    user.Username,
		Role:        user.Role,
		ExpiresIn:   int64(time.Until(expiresAt).Seconds()),
	})
}

// @Summary Register
// @Description Create a regular account. The new account never gets the Admin role.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body credentialsRequest true "Credentials"
// @Success 201 {object} registerResponse
// @Failure 400 {object} ErrorResponse "Username taken or invalid body"
// @Router /auth/register [post]
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		respondWithError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	user, err := h.User.Register(req.Username, req.Password)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, registerResponse{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
	})
}

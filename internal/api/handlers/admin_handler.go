// filepath: internal/api/handlers/admin_handler.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// roleRequest is the JSON body for role changes.
type roleRequest struct {
	Role string `json:"role"`
}

// passwordRequest is the JSON body for admin password resets.
type passwordRequest struct {
	NewPassword string `json:"new_password"`
}

// batchDeleteRequest names the images an admin wants removed.
type batchDeleteRequest struct {
	ImageIDs []int64 `json:"image_ids"`
}

// batchDeleteResponse reports how many rows were actually removed.
type batchDeleteResponse struct {
	Deleted int `json:"deleted"`
}

// @Summary List accounts
// @Tags Admin
// @Produce json
// @Param page query int false "Page (1-based)"
// @Param page_size query int false "Page size"
// @Success 200 {object} pagedResponse
// @Failure 403 {object} ErrorResponse "Admin role required"
// @Security BearerAuth
// @Router /admin/users [get]
func (h *Handlers) GetUsers(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)
	users, total, err := h.User.ListUsers(callerClaims(r), page, pageSize)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, pagedResponse{
		Items:      users,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	})
}

// @Summary Change an account's role
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "User id"
// @Param role body roleRequest true "New role"
// @Success 200 {object} models.User
// @Failure 400 {object} ErrorResponse "Invalid role"
// @Failure 403 {object} ErrorResponse "Own account"
// @Failure 404 {object} ErrorResponse "Unknown user"
// @Security BearerAuth
// @Router /admin/users/{id}/role [put]
func (h *Handlers) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req roleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.User.ChangeRole(callerClaims(r), id, req.Role)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

// @Summary Reset an account's password
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "User id"
// @Param password body passwordRequest true "New password"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse "Unknown user"
// @Security BearerAuth
// @Router /admin/users/{id}/password [put]
func (h *Handlers) ResetUserPassword(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req passwordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.NewPassword == "" {
		respondWithError(w, http.StatusBadRequest, "New password is required")
		return
	}

	if err := h.User.ResetPassword(callerClaims(r), id, req.NewPassword); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Password updated"})
}

// @Summary Delete an account
// @Description Remove the account, all of its images and files, and every favourite mark involved.
// @Tags Admin
// @Produce json
// @Param id path int true "User id"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} ErrorResponse "Own account"
// @Failure 404 {object} ErrorResponse "Unknown user"
// @Security BearerAuth
// @Router /admin/users/{id} [delete]
func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.User.DeleteAccount(r.Context(), callerClaims(r), id); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, MessageResponse{Message: fmt.Sprintf("User %d deleted", id)})
}

// @Summary List all images
// @Tags Admin
// @Produce json
// @Param page query int false "Page (1-based)"
// @Param page_size query int false "Page size"
// @Success 200 {object} pagedResponse
// @Failure 403 {object} ErrorResponse "Admin role required"
// @Security BearerAuth
// @Router /admin/images [get]
func (h *Handlers) GetAllImages(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)
	items, total, err := h.Image.AdminList(callerClaims(r), page, pageSize)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, pagedResponse{
		Items:      items,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	})
}

// @Summary Delete several images
// @Description Remove the listed images regardless of owner; unknown ids are skipped.
// @Tags Admin
// @Accept json
// @Produce json
// @Param ids body batchDeleteRequest true "Image ids"
// @Success 200 {object} batchDeleteResponse
// @Failure 403 {object} ErrorResponse "Admin role required"
// @Security BearerAuth
// @Router /admin/images/delete [post]
func (h *Handlers) BatchDeleteImages(w http.ResponseWriter, r *http.Request) {
	var req batchDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.ImageIDs) == 0 {
		respondWithError(w, http.StatusBadRequest, "image_ids must not be empty")
		return
	}

	deleted, err := h.Image.AdminBatchDelete(r.Context(), callerClaims(r), req.ImageIDs)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, batchDeleteResponse{Deleted: deleted})
}

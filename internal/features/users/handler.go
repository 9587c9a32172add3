package users

import (
	"github.com/gin-gonic/gin"

	"github.com/flashreport/api/internal/features/auth"
	"github.com/flashreport/api/internal/pkg/pagination"
	"github.com/flashreport/api/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List godoc
// @Summary List all users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.APIResponse{data=[]auth.UserResponse}
// @Router /users [get]
func (h *Handler) List(c *gin.Context) {
	page, limit := pagination.FromQuery(c.Query("page"), c.Query("limit"))
	pg := pagination.New(page, limit, 0)

	users, total, err := h.service.List(c.Request.Context(), pg.Offset, pg.Limit)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, "Users retrieved successfully", gin.H{
		"users":      toResponses(users),
		"pagination": pagination.New(page, limit, total),
	})
}

// Get godoc
// @Summary Get a user by id
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.APIResponse{data=auth.UserResponse}
// @Failure 404 {object} response.APIResponse
// @Router /users/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	user, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, "User retrieved successfully", auth.NewUserResponse(user))
}

// Delete godoc
// @Summary Delete a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.APIResponse
// @Router /users/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, "User deleted successfully", nil)
}

// Profile returns the authenticated user's own record.
func (h *Handler) Profile(c *gin.Context) {
	p, _ := auth.CurrentPrincipal(c)

	user, err := h.service.GetByUsername(c.Request.Context(), p.Username)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, "User profile retrieved successfully", auth.NewUserResponse(user))
}

// UpdateProfile lets the authenticated user edit their own contact fields.
func (h *Handler) UpdateProfile(c *gin.Context) {
	p, _ := auth.CurrentPrincipal(c)

	var update auth.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		response.BadRequest(c, "Invalid request format")
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), p.ID, update)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, "Profile updated successfully", auth.NewUserResponse(user))
}

// Manage lets an admin edit another user's contact fields.
func (h *Handler) Manage(c *gin.Context) {
	var update auth.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		response.BadRequest(c, "Invalid request format")
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, "User updated successfully", auth.NewUserResponse(user))
}

// Promote godoc
// @Summary Promote a user to admin
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.APIResponse{data=auth.UserResponse}
// @Router /users/{id}/promote [patch]
func (h *Handler) Promote(c *gin.Context) {
	user, err := h.service.Promote(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, "User promoted to admin successfully", auth.NewUserResponse(user))
}

// Demote godoc
// @Summary Demote an admin to regular user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.APIResponse{data=auth.UserResponse}
// @Failure 400 {object} response.APIResponse "Last admin cannot be demoted"
// @Router /users/{id}/demote [patch]
func (h *Handler) Demote(c *gin.Context) {
	user, err := h.service.Demote(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, "User demoted from admin successfully", auth.NewUserResponse(user))
}

// ListByRole returns every user holding the given role.
func (h *Handler) ListByRole(c *gin.Context) {
	role, ok := auth.ParseRole(c.Param("role"))
	if !ok {
		response.BadRequest(c, "Unknown role")
		return
	}

	users, err := h.service.ListByRole(c.Request.Context(), role)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, "Users retrieved successfully", toResponses(users))
}

// AdminCount reports how many admins exist.
func (h *Handler) AdminCount(c *gin.Context) {
	count, err := h.service.CountAdmins(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, "Admin count retrieved successfully", gin.H{"count": count})
}

func toResponses(users []auth.User) []auth.UserResponse {
	out := make([]auth.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, auth.NewUserResponse(&users[i]))
	}
	return out
}

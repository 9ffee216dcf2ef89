package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/journiv/journiv-server/internal/domain/dto"
	"github.com/journiv/journiv-server/internal/middleware"
	"github.com/journiv/journiv-server/internal/service"
)

// AdminHandler provides HTTP handlers for user administration routes.
// All routes require the admin role.
type AdminHandler struct {
	adminService service.AdminService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// ListUsers handles GET /api/admin/users requests.
//
// @Summary      List users
// @Description  Returns a paginated list of all user accounts.
// @Tags         Admin
// @Produce      json
// @Param        limit query int false "Page size" default(50)
// @Param        skip query int false "Offset" default(0)
// @Success      200 {object} dto.UserListResponse "User list"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized"
// @Failure      403 {object} dto.ErrorResponse "Forbidden - admin role required"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/admin/users [get]
// @Security     BearerAuth
func (h *AdminHandler) ListUsers(c *gin.Context) {
	builder := NewResponseBuilder(c)

	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	skip, _ := strconv.ParseInt(c.DefaultQuery("skip", "0"), 10, 64)

	users, total, err := h.adminService.ListUsers(c.Request.Context(), limit, skip)
	if err != nil {
		builder.Error(http.StatusInternalServerError, "failed to list users", err)
		return
	}

	responses := make([]dto.UserResponse, len(users))
	for i, user := range users {
		responses[i] = dto.NewUserResponse(user)
	}

	builder.SuccessOK(dto.UserListResponse{
		Users: responses,
		Total: total,
		Limit: limit,
		Skip:  skip,
	})
}

// GetUser handles GET /api/admin/users/:id requests.
//
// @Summary      Get user
// @Description  Returns a single user account by ID.
// @Tags         Admin
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} dto.UserResponse "User"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid user ID"
// @Failure      404 {object} dto.ErrorResponse "Not found"
// @Router       /api/admin/users/{id} [get]
// @Security     BearerAuth
func (h *AdminHandler) GetUser(c *gin.Context) {
	builder := NewResponseBuilder(c)

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		builder.Error(http.StatusBadRequest, "invalid user ID", err)
		return
	}

	user, err := h.adminService.GetUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			builder.Error(http.StatusNotFound, "user not found", err)
		} else {
			builder.Error(http.StatusInternalServerError, "failed to get user", err)
		}
		return
	}

	builder.SuccessOK(dto.NewUserResponse(user))
}

// CreateUser handles POST /api/admin/users requests.
//
// @Summary      Create user
// @Description  Creates a new user account with an explicit role.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateUserRequest true "New user"
// @Success      201 {object} dto.UserResponse "Created user"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Failure      409 {object} dto.ErrorResponse "Conflict - user already exists"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/admin/users [post]
// @Security     BearerAuth
func (h *AdminHandler) CreateUser(c *gin.Context) {
	builder := NewResponseBuilder(c)

	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		builder.Error(http.StatusBadRequest, "invalid request body", err)
		return
	}

	user, err := h.adminService.CreateUser(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserExists) || mongo.IsDuplicateKeyError(err):
			builder.Error(http.StatusConflict, "user already exists", err)
		case errors.Is(err, service.ErrInvalidRole):
			builder.Error(http.StatusBadRequest, "invalid role", err)
		default:
			builder.Error(http.StatusInternalServerError, "failed to create user", err)
		}
		return
	}

	h.audit(c, "create_user", "Admin created user", map[string]interface{}{
		"target_email": user.Email,
		"target_role":  user.Role,
	})

	builder.SuccessCreated(dto.NewUserResponse(user))
}

// UpdateUser handles PUT /api/admin/users/:id requests.
//
// Demoting the last remaining admin is rejected with a 400 response whose
// message names the last admin guard.
//
// @Summary      Update user
// @Description  Applies a partial update to a user account. Demoting the last admin is rejected.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID"
// @Param        request body dto.UpdateUserRequest true "Fields to update"
// @Success      200 {object} dto.UserResponse "Updated user"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input or last admin"
// @Failure      404 {object} dto.ErrorResponse "Not found"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/admin/users/{id} [put]
// @Security     BearerAuth
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	builder := NewResponseBuilder(c)

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		builder.Error(http.StatusBadRequest, "invalid user ID", err)
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		builder.Error(http.StatusBadRequest, "invalid request body", err)
		return
	}

	user, err := h.adminService.UpdateUser(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLastAdmin):
			builder.Error(http.StatusBadRequest, "cannot demote the last admin user", err)
		case errors.Is(err, service.ErrUserNotFound):
			builder.Error(http.StatusNotFound, "user not found", err)
		case errors.Is(err, service.ErrInvalidRole):
			builder.Error(http.StatusBadRequest, "invalid role", err)
		default:
			builder.Error(http.StatusInternalServerError, "failed to update user", err)
		}
		return
	}

	h.audit(c, "update_user", "Admin updated user", map[string]interface{}{
		"target_id": id.Hex(),
	})

	builder.SuccessOK(dto.NewUserResponse(user))
}

// DeleteUser handles DELETE /api/admin/users/:id requests.
//
// Deleting the last remaining admin is rejected with a 400 response whose
// message names the last admin guard.
//
// @Summary      Delete user
// @Description  Removes a user account and revokes its tokens. Deleting the last admin is rejected.
// @Tags         Admin
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} dto.SuccessResponse "User deleted"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid user ID or last admin"
// @Failure      404 {object} dto.ErrorResponse "Not found"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/admin/users/{id} [delete]
// @Security     BearerAuth
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	builder := NewResponseBuilder(c)

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		builder.Error(http.StatusBadRequest, "invalid user ID", err)
		return
	}

	if err := h.adminService.DeleteUser(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, service.ErrLastAdmin):
			builder.Error(http.StatusBadRequest, "cannot delete the last admin user", err)
		case errors.Is(err, service.ErrUserNotFound):
			builder.Error(http.StatusNotFound, "user not found", err)
		default:
			builder.Error(http.StatusInternalServerError, "failed to delete user", err)
		}
		return
	}

	h.audit(c, "delete_user", "Admin deleted user", map[string]interface{}{
		"target_id": id.Hex(),
	})

	builder.SuccessOK(gin.H{"message": "user deleted"})
}

func (h *AdminHandler) audit(c *gin.Context, actionType, message string, fields map[string]interface{}) {
	if loggingService, exists := c.Get("logging_service"); exists {
		if ls, ok := loggingService.(service.LoggingService); ok {
			middleware.AuditLog(ls, c, actionType, message, fields)
		}
	}
}

package handler

import (
	"context"
	"net/http"
	"strings"

	"scholarlyedge/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserStore is the user-management slice of the repository, satisfied by
// repository.UserRepository.
type UserStore interface {
	List(ctx context.Context) ([]model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	Update(ctx context.Context, u *model.User) error
	Deactivate(ctx context.Context, id int64) error
}

type UserHandler struct {
	users  UserStore
	logger *zap.Logger
}

func NewUserHandler(users UserStore, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		logger: logger,
	}
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(users),
		"data":    users,
	})
}

// Get serves a single user. Writers can only read their own record; admins
// can read anyone's.
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	actor := currentUser(c)
	if !actor.IsAdmin() && actor.ID != id {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "not authorized to view this user"})
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

type updateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"isActive"`
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "name cannot be empty"})
			return
		}
		user.Name = name
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "email cannot be empty"})
			return
		}
		user.Email = email
	}
	if req.Role != nil {
		if *req.Role != model.RoleWriter && *req.Role != model.RoleAdmin {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid role"})
			return
		}
		user.Role = *req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := h.users.Update(c.Request.Context(), user); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

// Delete deactivates a user instead of removing the row, so existing
// project and ledger references stay intact.
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if currentUser(c).ID == id {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "cannot deactivate your own account"})
		return
	}

	if err := h.users.Deactivate(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{}})
}

package handler

import (
	"errors"
	"net/http"
	"strings"

	"scholarlyedge/internal/apperr"
	"scholarlyedge/internal/model"
	"scholarlyedge/internal/notifier"
	"scholarlyedge/internal/repository"
	"scholarlyedge/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	users     *repository.UserRepository
	notifier  notifier.Sender
	jwtSecret string
	logger    *zap.Logger
}

func NewAuthHandler(users *repository.UserRepository, sender notifier.Sender, jwtSecret string, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		users:     users,
		notifier:  sender,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || len(req.Password) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "name, email and a password of at least 6 characters are required"})
		return
	}

	role := req.Role
	if role == "" {
		role = model.RoleWriter
	}
	if role != model.RoleWriter && role != model.RoleAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid role"})
		return
	}

	if _, err := h.users.GetByEmail(c.Request.Context(), req.Email); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "email already registered"})
		return
	} else if !errors.Is(err, apperr.ErrNotFound) {
		respondError(c, h.logger, err)
		return
	}

	hash, err := util.HashPassword(req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if _, err := h.users.Insert(c.Request.Context(), user); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.notifier.SendWelcomeEmail(c.Request.Context(), user.Email, user.Name)

	token, err := util.GenerateJWT(user.ID, h.jwtSecret)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"token":   token,
		"data":    user,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid credentials"})
			return
		}
		respondError(c, h.logger, err)
		return
	}

	if !util.CheckPassword(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid credentials"})
		return
	}
	if !user.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "account is deactivated"})
		return
	}

	token, err := util.GenerateJWT(user.ID, h.jwtSecret)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"data":    user,
	})
}

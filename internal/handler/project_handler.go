package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"scholarlyedge/internal/model"
	"scholarlyedge/internal/repository"
	"scholarlyedge/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProjectHandler struct {
	lifecycle *service.LifecycleService
	projects  *repository.ProjectRepository
	logger    *zap.Logger
}

func NewProjectHandler(lifecycle *service.LifecycleService, projects *repository.ProjectRepository, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		lifecycle: lifecycle,
		projects:  projects,
		logger:    logger,
	}
}

func parseDeadline(s string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// List returns all projects for admins and only assigned projects for
// writers.
func (h *ProjectHandler) List(c *gin.Context) {
	user := currentUser(c)

	var (
		projects []model.Project
		err      error
	)
	if user.IsAdmin() {
		projects, err = h.projects.List(c.Request.Context())
	} else {
		projects, err = h.projects.ListByWriter(c.Request.Context(), user.ID)
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(projects),
		"data":    projects,
	})
}

type clientRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type createProjectRequest struct {
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Client        clientRequest `json:"client"`
	AssignedTo    int64         `json:"assignedTo"`
	Deadline      string        `json:"deadline"`
	ClientPrice   *float64      `json:"clientPrice"`
	WriterPrice   *float64      `json:"writerPrice"`
	ReferralPrice float64       `json:"referralPrice"`
	Priority      string        `json:"priority"`
	Category      string        `json:"category"`
	WordCount     *int          `json:"wordCount"`
}

func (h *ProjectHandler) Create(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}

	if req.ClientPrice == nil || req.WriterPrice == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "clientPrice and writerPrice are required"})
		return
	}

	deadline, ok := parseDeadline(req.Deadline)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid deadline date"})
		return
	}

	input := service.CreateProjectInput{
		Title:       req.Title,
		Description: req.Description,
		Client: model.Client{
			Name:  req.Client.Name,
			Email: req.Client.Email,
			Phone: req.Client.Phone,
		},
		AssignedTo:    req.AssignedTo,
		Deadline:      deadline,
		WordCount:     req.WordCount,
		ClientPrice:   *req.ClientPrice,
		WriterPrice:   *req.WriterPrice,
		ReferralPrice: req.ReferralPrice,
		Priority:      req.Priority,
		Category:      req.Category,
	}

	project, err := h.lifecycle.Create(c.Request.Context(), input, currentUser(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Project created successfully",
		"data":    project,
	})
}

func (h *ProjectHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	project, err := h.projects.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	user := currentUser(c)
	if !user.IsAdmin() && project.AssignedTo != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "not authorized to view this project"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": project})
}

type updateProjectRequest struct {
	Title         *string        `json:"title"`
	Description   *string        `json:"description"`
	Client        *clientRequest `json:"client"`
	Deadline      *string        `json:"deadline"`
	ClientPrice   *float64       `json:"clientPrice"`
	WriterPrice   *float64       `json:"writerPrice"`
	ReferralPrice *float64       `json:"referralPrice"`
	Priority      *string        `json:"priority"`
	Category      *string        `json:"category"`
	WordCount     *int           `json:"wordCount"`
}

// Update edits descriptive and commercial fields. Status changes go through
// UpdateStatus; assignment is immutable.
func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req updateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}

	project, err := h.projects.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	user := currentUser(c)
	if !user.IsAdmin() && project.AssignedTo != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "not authorized to update this project"})
		return
	}

	if req.Title != nil {
		project.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		project.Description = strings.TrimSpace(*req.Description)
	}
	if req.Client != nil {
		project.Client = model.Client{
			Name:  strings.TrimSpace(req.Client.Name),
			Email: strings.ToLower(strings.TrimSpace(req.Client.Email)),
			Phone: strings.TrimSpace(req.Client.Phone),
		}
	}
	if req.Deadline != nil {
		deadline, ok := parseDeadline(*req.Deadline)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid deadline date"})
			return
		}
		project.Deadline = deadline
	}
	if req.ClientPrice != nil {
		project.ClientPrice = *req.ClientPrice
	}
	if req.WriterPrice != nil {
		project.WriterPrice = *req.WriterPrice
	}
	if req.ReferralPrice != nil {
		project.ReferralPrice = *req.ReferralPrice
	}
	if req.Priority != nil {
		project.Priority = *req.Priority
	}
	if req.Category != nil {
		project.Category = *req.Category
	}
	if req.WordCount != nil {
		project.WordCount = req.WordCount
	}

	if err := h.projects.UpdateDetails(c.Request.Context(), project); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": project})
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.projects.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{}})
}

type updateStatusRequest struct {
	Status             string `json:"status"`
	CancellationReason string `json:"cancellationReason"`
}

func (h *ProjectHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}

	project, err := h.lifecycle.Transition(c.Request.Context(), id, req.Status, currentUser(c), req.CancellationReason)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": project})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid id"})
		return 0, false
	}
	return id, true
}

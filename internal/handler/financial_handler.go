package handler

import (
	"net/http"
	"time"

	"scholarlyedge/internal/model"
	"scholarlyedge/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type FinancialHandler struct {
	records  *repository.FinancialRepository
	projects *repository.ProjectRepository
	users    *repository.UserRepository
	logger   *zap.Logger
}

func NewFinancialHandler(
	records *repository.FinancialRepository,
	projects *repository.ProjectRepository,
	users *repository.UserRepository,
	logger *zap.Logger,
) *FinancialHandler {
	return &FinancialHandler{
		records:  records,
		projects: projects,
		users:    users,
		logger:   logger,
	}
}

func (h *FinancialHandler) List(c *gin.Context) {
	records, err := h.records.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(records),
		"data":    records,
	})
}

type createRecordRequest struct {
	Type            string   `json:"type"`
	Category        string   `json:"category"`
	Amount          *float64 `json:"amount"`
	Currency        string   `json:"currency"`
	Description     string   `json:"description"`
	ProjectID       *int64   `json:"project"`
	UserID          *int64   `json:"user"`
	Status          string   `json:"status"`
	TransactionDate string   `json:"transactionDate"`
	Notes           string   `json:"notes"`
}

func (h *FinancialHandler) Create(c *gin.Context) {
	var req createRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}

	if req.Type != model.RecordTypeIncome && req.Type != model.RecordTypeExpense {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "type must be income or expense"})
		return
	}
	if req.Category == "" || req.Description == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "category and description are required"})
		return
	}
	if req.Amount == nil || *req.Amount < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "amount must be a valid positive number"})
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = model.DefaultCurrency
	}
	status := req.Status
	if status == "" {
		status = model.RecordStatusPending
	}

	transactionDate := time.Now()
	if req.TransactionDate != "" {
		t, err := time.Parse(time.RFC3339, req.TransactionDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid transaction date"})
			return
		}
		transactionDate = t
	}

	rec := &model.FinancialRecord{
		Type:            req.Type,
		Category:        req.Category,
		Amount:          *req.Amount,
		Currency:        currency,
		Description:     req.Description,
		ProjectID:       req.ProjectID,
		UserID:          req.UserID,
		Status:          status,
		TransactionDate: transactionDate,
		Notes:           req.Notes,
		CreatedBy:       currentUser(c).ID,
	}

	if _, err := h.records.Insert(c.Request.Context(), rec); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": rec})
}

// Summary powers the admin dashboard: totals plus the most recent projects
// and payments.
func (h *FinancialHandler) Summary(c *gin.Context) {
	ctx := c.Request.Context()

	totalRevenue, err := h.records.SumCompletedIncome(ctx)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	totalUsers, err := h.users.CountAll(ctx)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	totalProjects, err := h.projects.CountAll(ctx)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	pendingProjects, err := h.projects.CountByStatus(ctx, model.StatusPending)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	recentProjects, err := h.projects.ListRecent(ctx, 5)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	recentPayments, err := h.records.ListRecent(ctx, 5)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"totalRevenue":    totalRevenue,
			"totalUsers":      totalUsers,
			"totalProjects":   totalProjects,
			"pendingProjects": pendingProjects,
			"recentProjects":  recentProjects,
			"recentPayments":  recentPayments,
		},
	})
}

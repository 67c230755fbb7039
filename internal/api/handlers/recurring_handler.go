package handlers

import (
	"net/http"

	"github.com/dmarto21/finanzas-tracker/internal/api/middleware"
	"github.com/dmarto21/finanzas-tracker/internal/models"
	"github.com/dmarto21/finanzas-tracker/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RecurringHandler struct {
	recurringService service.RecurringService
}

func NewRecurringHandler(recurringService service.RecurringService) *RecurringHandler {
	return &RecurringHandler{recurringService: recurringService}
}

func (h *RecurringHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var input models.RecurringExpenseCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	expense, err := h.recurringService.Create(c.Request.Context(), userID, &input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, expense)
}

func (h *RecurringHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	activeOnly := c.Query("active") == "true"

	expenses, err := h.recurringService.List(c.Request.Context(), userID, activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, expenses)
}

func (h *RecurringHandler) GetByID(c *gin.Context) {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recurring expense ID"})
		return
	}

	expense, err := h.recurringService.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, expense)
}

func (h *RecurringHandler) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recurring expense ID"})
		return
	}

	var input models.RecurringExpenseUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	expense, err := h.recurringService.Update(c.Request.Context(), userID, id, &input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, expense)
}

func (h *RecurringHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recurring expense ID"})
		return
	}

	if err := h.recurringService.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "recurring expense deleted"})
}

// Provision ручной запуск доначисления строк оплат для периода
func (h *RecurringHandler) Provision(c *gin.Context) {
	userID := middleware.GetUserID(c)

	periodID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid period ID"})
		return
	}

	inserted, err := h.recurringService.ProvisionForPeriod(c.Request.Context(), periodID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"provisioned": inserted})
}

// PaymentsForPeriod обязательства периода со строками оплат или заглушками
func (h *RecurringHandler) PaymentsForPeriod(c *gin.Context) {
	userID := middleware.GetUserID(c)

	periodID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid period ID"})
		return
	}

	payments, err := h.recurringService.PaymentsForPeriod(c.Request.Context(), userID, periodID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, payments)
}

func (h *RecurringHandler) SearchPayments(c *gin.Context) {
	userID := middleware.GetUserID(c)

	filter := &models.RecurringPaymentFilter{}

	if periodID := c.Query("period_id"); periodID != "" {
		if id, err := uuid.Parse(periodID); err == nil {
			filter.PeriodID = &id
		}
	}
	if expenseID := c.Query("expense_id"); expenseID != "" {
		if id, err := uuid.Parse(expenseID); err == nil {
			filter.ExpenseID = &id
		}
	}
	if paid := c.Query("paid"); paid != "" {
		p := paid == "true"
		filter.Paid = &p
	}

	payments, err := h.recurringService.SearchPayments(c.Request.Context(), userID, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, payments)
}

func (h *RecurringHandler) UpdatePayment(c *gin.Context) {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment ID"})
		return
	}

	var input models.RecurringPaymentUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := h.recurringService.UpdatePayment(c.Request.Context(), userID, id, &input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

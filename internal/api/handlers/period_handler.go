package handlers

import (
	"net/http"
	"strconv"

	"github.com/dmarto21/finanzas-tracker/internal/api/middleware"
	"github.com/dmarto21/finanzas-tracker/internal/models"
	"github.com/dmarto21/finanzas-tracker/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PeriodHandler struct {
	periodService service.PeriodService
}

func NewPeriodHandler(periodService service.PeriodService) *PeriodHandler {
	return &PeriodHandler{periodService: periodService}
}

func (h *PeriodHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var input models.PeriodCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	period, err := h.periodService.Create(c.Request.Context(), userID, &input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, period)
}

func (h *PeriodHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	periods, err := h.periodService.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, periods)
}

// FindByMonth поиск периода по паре год+месяц, 200 с null если нет
func (h *PeriodHandler) FindByMonth(c *gin.Context) {
	userID := middleware.GetUserID(c)

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}
	month := models.Month(c.Query("month"))

	period, err := h.periodService.FindByMonth(c.Request.Context(), userID, year, month)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, period)
}

func (h *PeriodHandler) GetByID(c *gin.Context) {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid period ID"})
		return
	}

	period, err := h.periodService.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, period)
}

func (h *PeriodHandler) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid period ID"})
		return
	}

	var input models.PeriodUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	period, err := h.periodService.Update(c.Request.Context(), userID, id, &input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, period)
}

func (h *PeriodHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid period ID"})
		return
	}

	if err := h.periodService.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "period deleted"})
}

func (h *PeriodHandler) GetBalances(c *gin.Context) {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid period ID"})
		return
	}

	balances, err := h.periodService.GetBalances(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, balances)
}

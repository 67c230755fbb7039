package handlers

import (
	"net/http"

	"github.com/dmarto21/finanzas-tracker/internal/api/middleware"
	"github.com/dmarto21/finanzas-tracker/internal/models"
	"github.com/dmarto21/finanzas-tracker/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InstrumentHandler struct {
	instrumentService service.InstrumentService
}

func NewInstrumentHandler(instrumentService service.InstrumentService) *InstrumentHandler {
	return &InstrumentHandler{instrumentService: instrumentService}
}

func (h *InstrumentHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var input models.InstrumentCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	instrument, err := h.instrumentService.Create(c.Request.Context(), userID, &input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, instrument)
}

func (h *InstrumentHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	instruments, err := h.instrumentService.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, instruments)
}

func (h *InstrumentHandler) GetByID(c *gin.Context) {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid instrument ID"})
		return
	}

	instrument, err := h.instrumentService.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, instrument)
}

func (h *InstrumentHandler) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid instrument ID"})
		return
	}

	var input models.InstrumentUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	instrument, err := h.instrumentService.Update(c.Request.Context(), userID, id, &input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, instrument)
}

func (h *InstrumentHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid instrument ID"})
		return
	}

	if err := h.instrumentService.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "instrument deleted"})
}

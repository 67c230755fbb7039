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

type ReportHandler struct {
	reportService  service.ReportService
	summaryService service.SummaryService
}

func NewReportHandler(reportService service.ReportService, summaryService service.SummaryService) *ReportHandler {
	return &ReportHandler{
		reportService:  reportService,
		summaryService: summaryService,
	}
}

func (h *ReportHandler) Generate(c *gin.Context) {
	userID := middleware.GetUserID(c)

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}
	month := models.Month(c.Query("month"))

	report, err := h.reportService.GenerateReport(c.Request.Context(), userID, year, month)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) GetSummary(c *gin.Context) {
	userID := middleware.GetUserID(c)

	periodID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid period ID"})
		return
	}

	summary, err := h.summaryService.GetByPeriod(c.Request.Context(), userID, periodID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/dmarto21/finanzas-tracker/internal/apperr"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// respondError переводит доменную ошибку в HTTP-статус.
// Все что не доменное - 500 без деталей наружу
func respondError(c *gin.Context, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		body := gin.H{"error": appErr.Message, "code": appErr.Code}
		if len(appErr.Details) > 0 {
			body["details"] = appErr.Details
		}
		c.JSON(statusForCode(appErr.Code), body)
		return
	}

	logrus.WithError(err).Error("unhandled error")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func statusForCode(code apperr.Code) int {
	switch code {
	case apperr.CodeNotFound:
		return http.StatusNotFound
	case apperr.CodeValidation:
		return http.StatusBadRequest
	case apperr.CodeForbidden:
		return http.StatusForbidden
	case apperr.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

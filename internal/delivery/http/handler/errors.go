package handler

import (
	"errors"
	"net/http"

	"dine-reserve/internal/logger"
	"dine-reserve/internal/middleware"
	appErrors "dine-reserve/pkg/errors"
	"dine-reserve/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var statusByCode = map[string]int{
	appErrors.CodeInvalidInput:       http.StatusBadRequest,
	appErrors.CodeInvalidDate:        http.StatusBadRequest,
	appErrors.CodeInvalidTime:        http.StatusBadRequest,
	appErrors.CodeInvalidSeats:       http.StatusBadRequest,
	appErrors.CodeDuplicateField:     http.StatusBadRequest,
	appErrors.CodeInvalidCredentials: http.StatusBadRequest,
	appErrors.CodeUnauthorized:       http.StatusUnauthorized,
	appErrors.CodeUserBlocked:        http.StatusForbidden,
	appErrors.CodeNotFound:           http.StatusNotFound,
	appErrors.CodeCapacityExceeded:   http.StatusConflict,
	appErrors.CodeInvalidTransition:  http.StatusConflict,
}

// StatusForCode returns the HTTP status an AppError code is reported with.
func StatusForCode(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func respondWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var appErr *appErrors.AppError
	if !errors.As(err, &appErr) {
		logInternal(c, err)
		utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	status := StatusForCode(appErr.Code)
	if status >= http.StatusInternalServerError {
		logInternal(c, err)
	}

	if len(appErr.Details) > 0 {
		utils.ErrorResponseWithDetails(c, status, appErr.Message, appErr.Details)
		return
	}
	utils.ErrorResponse(c, status, appErr.Message)
}

func logInternal(c *gin.Context, err error) {
	_ = c.Error(err)
	logger.Error("Internal server error",
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Error(err),
	)
}

package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pickup-address/app/responses"
	apperrors "github.com/pickup-address/internal/errors"
	"go.uber.org/zap"
)

// respondError chuyển lỗi thành ErrorResponse; lỗi không có mã trả 500 INTERNAL
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	aErr, ok := apperrors.As(err)
	if !ok {
		aErr = apperrors.NewInternal(err)
	}
	if aErr.Status >= http.StatusInternalServerError {
		logger.Error("Request lỗi",
			zap.String("path", c.FullPath()),
			zap.String("code", string(aErr.Code)),
			zap.Error(err))
	}
	c.JSON(aErr.Status, responses.ErrorResponse{
		Error:     string(aErr.Code),
		Message:   aErr.Message,
		Details:   aErr.Details,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// respondBindError lỗi bind request
func respondBindError(c *gin.Context, logger *zap.Logger, err error) {
	respondError(c, logger, apperrors.NewInvalidRequest("Request không hợp lệ: "+err.Error()))
}

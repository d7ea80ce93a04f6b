package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/announcement-relay/internal/domain/announcement"
	apperrors "github.com/yanqian/announcement-relay/pkg/errors"
)

const (
	serviceName = "announcement-relay"
	apiVersion  = "1.0.0"
)

// Handler wires the HTTP transport to the announcement service.
type Handler struct {
	svc    announcement.Service
	logger *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(svc announcement.Service, logger *slog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		logger: logger.With("component", "http.handler"),
	}
}

// Root describes the API.
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "FinVarta WhatsApp Processor API",
		"version": apiVersion,
		"endpoints": gin.H{
			"health":  "GET /health",
			"process": "POST /process",
		},
	})
}

// Health is the liveness probe. It must not touch any upstream.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
	})
}

// Process runs one announcement through summarization and WhatsApp delivery.
func (h *Handler) Process(c *gin.Context) {
	var req announcement.Request
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.svc.Process(c.Request.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		code := "process_failed"
		switch apperrors.CodeOf(err) {
		case apperrors.CodeInvalidInput:
			status = http.StatusBadRequest
			code = "invalid_request"
		case apperrors.CodeLLM:
			status = http.StatusBadGateway
			code = apperrors.CodeLLM
		case apperrors.CodeSource:
			status = http.StatusBadGateway
			code = apperrors.CodeSource
		}
		abortWithError(c, NewHTTPError(status, code, clientMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// clientMessage keeps upstream error bodies out of responses; the full
// chain is logged by errorHandlingMiddleware.
func clientMessage(err error) string {
	if msg := apperrors.MessageOf(err); msg != "" {
		return msg
	}
	return "failed to process announcement"
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

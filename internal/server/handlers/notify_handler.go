package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/ovinet/internal/domain/models"
	"github.com/mamadbah2/ovinet/pkg/clients/notify"
)

// NotifyHandler exposes manual outbound notifications.
type NotifyHandler struct {
	notifier notify.Client
	logger   *zap.Logger
}

// NewNotifyHandler constructs the HTTP handler adapter.
func NewNotifyHandler(notifier notify.Client, logger *zap.Logger) *NotifyHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotifyHandler{notifier: notifier, logger: logger}
}

// SendMessage delivers a one-off text message to the given recipient.
func (h *NotifyHandler) SendMessage(c *gin.Context) {
	var req models.OutboundMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	_, err := h.notifier.SendTextMessage(c.Request.Context(), notify.SendTextMessageRequest{
		To:         req.To,
		Body:       req.Message,
		PreviewURL: req.PreviewURL,
	})
	if err != nil {
		h.logger.Error("failed sending outbound message", zap.String("to", req.To), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to send message"})
		return
	}

	c.Status(http.StatusAccepted)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akazakov/workmarket-backend/internal/http/handlers/common"
	"github.com/akazakov/workmarket-backend/internal/service"
)

// MessageHandler предоставляет HTTP слой для обсуждений заданий.
type MessageHandler struct {
	messages *service.MessageService
}

// NewMessageHandler создаёт хэндлер.
func NewMessageHandler(messages *service.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// ListMessages обрабатывает GET /jobs/:id/messages.
func (h *MessageHandler) ListMessages(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	jobID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	limit, offset := common.GetPagination(c)
	messages, err := h.messages.ListMessages(c.Request.Context(), jobID, actor, limit, offset)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages, "limit": limit, "offset": offset})
}

// PostMessage обрабатывает POST /jobs/:id/messages.
func (h *MessageHandler) PostMessage(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	jobID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}

	if err := common.BindJSON(c, &req); err != nil {
		common.AbortWithError(c, err)
		return
	}

	message, err := h.messages.PostMessage(c.Request.Context(), jobID, actor, req.Content)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

// DeleteMessage обрабатывает DELETE /messages/:id.
func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	messageID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	if err := h.messages.DeleteMessage(c.Request.Context(), messageID, actor); err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "сообщение удалено"})
}

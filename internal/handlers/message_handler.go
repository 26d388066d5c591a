package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bpariverside/skillswap-service/internal/repositories"
	"github.com/bpariverside/skillswap-service/internal/services"
	"github.com/bpariverside/skillswap-service/internal/utils"
)

type MessageHandler struct {
	BaseHandler
	messageService services.MessageService
}

func NewMessageHandler(messageService services.MessageService, logger utils.Logger) *MessageHandler {
	return &MessageHandler{
		BaseHandler:    NewBaseHandler(logger),
		messageService: messageService,
	}
}

// ContactHost stores a message for a session host, resolved by session id
// or handle.
func (h *MessageHandler) ContactHost(c *gin.Context) {
	var req services.ContactHostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Fail("invalid request payload"))
		return
	}

	message, err := h.messageService.ContactHost(c.Request.Context(), CurrentActor(c), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, OK(message))
}

func (h *MessageHandler) List(c *gin.Context) {
	actor := CurrentActor(c)

	filters := repositories.MessageFilters{
		Limit:  intQuery(c, "limit"),
		Offset: intQuery(c, "offset"),
	}

	messages, err := h.messageService.List(c.Request.Context(), actor.UserID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, OK(messages))
}

func (h *MessageHandler) Delete(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, Fail("id is required"))
		return
	}

	if err := h.messageService.Delete(c.Request.Context(), CurrentActor(c), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, OK(nil))
}

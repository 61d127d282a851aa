package v1

import (
	"net/http"
	"strconv"
	"time"

	"partnerz-backend/internal/delivery/http/middleware"
	"partnerz-backend/internal/delivery/http/response"
	"partnerz-backend/internal/domain"
	"partnerz-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chatUC domain.ChatUsecase
}

func NewChatHandler(protected *gin.RouterGroup, chatUC domain.ChatUsecase) {
	handler := &ChatHandler{chatUC: chatUC}

	protected.GET("/conversations", handler.ListConversations)
	protected.GET("/partnerships/:id/messages", handler.ListMessages)
	protected.POST("/partnerships/:id/messages", handler.SendMessage)
}

type SendMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

// ListConversations godoc
// @Summary      Conversations
// @Description  Pending and active partnerships of the caller, with the other side's name.
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]domain.Conversation}
// @Router       /conversations [get]
func (h *ChatHandler) ListConversations(c *gin.Context) {
	conversations, err := h.chatUC.ListConversations(c.Request.Context(), middleware.UserID(c), middleware.Role(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", conversations)
}

// ListMessages godoc
// @Summary      Messages of a partnership
// @Description  Newest first. Pass the created_at of the oldest message as before to page back.
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string  true   "Partnership ID"
// @Param        limit   query     int     false  "Page size (max 100)"
// @Param        before  query     string  false  "RFC3339 timestamp"
// @Success      200     {object}  response.Response{data=[]domain.Message}
// @Failure      403     {object}  response.Response
// @Router       /partnerships/{id}/messages [get]
func (h *ChatHandler) ListMessages(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	var before *time.Time
	if raw := c.Query("before"); raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			c.Error(apperror.BadRequest("before must be an RFC3339 timestamp"))
			return
		}
		before = &t
	}

	messages, err := h.chatUC.ListMessages(c.Request.Context(), middleware.UserID(c), middleware.Role(c), c.Param("id"), before, limit)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", messages)
}

// SendMessage godoc
// @Summary      Send a message
// @Tags         chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string              true  "Partnership ID"
// @Param        request  body      SendMessageRequest  true  "Message text"
// @Success      201      {object}  response.Response{data=domain.Message}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /partnerships/{id}/messages [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Message body is required"))
		return
	}

	message, err := h.chatUC.SendMessage(c.Request.Context(), middleware.UserID(c), middleware.Role(c), c.Param("id"), req.Body)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Message sent", message)
}

package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nurbek2810/stockchat-api/internal/api/handler/v1/request"
	"github.com/nurbek2810/stockchat-api/internal/api/handler/v1/response"
	"github.com/nurbek2810/stockchat-api/internal/domain"
)

type IngestService interface {
	ProcessMessage(ctx context.Context, msg domain.InboundMessage) (domain.IngestResult, error)
}

type MessageHandler struct {
	svc IngestService
}

func NewMessageHandler(svc IngestService) *MessageHandler {
	return &MessageHandler{
		svc: svc,
	}
}

// HandleInboundMessage godoc
// @Summary      Ingest an inbound chat message
// @Description  Runs the message-to-ledger pipeline on one chat message. Redelivered messages (same source_message_id) are no-ops.
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        input  body      request.InboundMessageRequest  true  "Inbound message"
// @Success      200    {object}  domain.IngestResult
// @Failure      400    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /messages [post]
func (h *MessageHandler) HandleInboundMessage(ctx *gin.Context) {
	req := request.InboundMessageRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	result, err := h.svc.ProcessMessage(ctx.Request.Context(), domain.InboundMessage{
		SourceMessageID: req.SourceMessageID,
		Person:          req.Person,
		Network:         req.Network,
		ChatID:          req.ChatID,
		Text:            req.Text,
	})
	if err != nil {
		err = fmt.Errorf("HandleInboundMessage -> h.svc.ProcessMessage -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, result)
}

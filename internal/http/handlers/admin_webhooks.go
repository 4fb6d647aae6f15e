package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fasttrackbd/courier/internal/domain/webhook"
)

type WebhooksRepo interface {
	List(ctx context.Context) ([]webhook.Webhook, error)
	Create(ctx context.Context, url string, events []string) (webhook.Webhook, error)
	Delete(ctx context.Context, id string) error
}

type WebhooksHandler struct {
	repo WebhooksRepo
}

func NewWebhooksHandler(repo WebhooksRepo) *WebhooksHandler {
	return &WebhooksHandler{repo: repo}
}

func (h *WebhooksHandler) ListWebhooks(ctx *gin.Context) {
	hooks, err := h.repo.List(ctx.Request.Context())

	if err != nil {
		RespondInternal(ctx, "Could not list webhooks")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": hooks,
		"count": len(hooks),
	})
}

func (h *WebhooksHandler) RegisterWebhook(ctx *gin.Context) {
	var req webhook.RegisterWebhookRequest

	if !BindJSON(ctx, &req) {
		return
	}

	w, err := h.repo.Create(ctx.Request.Context(), req.URL, req.Events)

	if err != nil {
		RespondInternal(ctx, "Could not register webhook")
		return
	}

	ctx.JSON(http.StatusCreated, w)
}

func (h *WebhooksHandler) DeleteWebhook(ctx *gin.Context) {
	id := ctx.Param("id")

	err := h.repo.Delete(ctx.Request.Context(), id)

	if err != nil {
		if errors.Is(err, webhook.ErrNotFound) {
			RespondNotFound(ctx, "Webhook not found")
			return
		}

		RespondInternal(ctx, "Could not delete webhook")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Webhook deleted successfully"})
}

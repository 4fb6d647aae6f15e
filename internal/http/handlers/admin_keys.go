package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fasttrackbd/courier/internal/domain/apikey"
)

type KeysRepo interface {
	List(ctx context.Context) ([]apikey.Key, error)
	Generate(ctx context.Context, name, description string) (apikey.Key, error)
	Revoke(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type APIKeysHandler struct {
	repo KeysRepo
}

func NewAPIKeysHandler(repo KeysRepo) *APIKeysHandler {
	return &APIKeysHandler{repo: repo}
}

func (h *APIKeysHandler) ListKeys(ctx *gin.Context) {
	keys, err := h.repo.List(ctx.Request.Context())

	if err != nil {
		RespondInternal(ctx, "Could not list API keys")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": keys,
		"count": len(keys),
	})
}

func (h *APIKeysHandler) CreateKey(ctx *gin.Context) {
	var req apikey.CreateKeyRequest

	if !BindJSON(ctx, &req) {
		return
	}

	k, err := h.repo.Generate(ctx.Request.Context(), req.Name, req.Description)

	if err != nil {
		RespondInternal(ctx, "Could not generate API key")
		return
	}

	ctx.JSON(http.StatusCreated, k)
}

func (h *APIKeysHandler) RevokeKey(ctx *gin.Context) {
	id := ctx.Param("id")

	err := h.repo.Revoke(ctx.Request.Context(), id)

	if err != nil {
		if errors.Is(err, apikey.ErrNotFound) {
			RespondNotFound(ctx, "API key not found")
			return
		}

		RespondInternal(ctx, "Could not revoke API key")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "API key revoked successfully"})
}

func (h *APIKeysHandler) DeleteKey(ctx *gin.Context) {
	id := ctx.Param("id")

	err := h.repo.Delete(ctx.Request.Context(), id)

	if err != nil {
		if errors.Is(err, apikey.ErrNotFound) {
			RespondNotFound(ctx, "API key not found")
			return
		}

		RespondInternal(ctx, "Could not delete API key")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "API key deleted successfully"})
}

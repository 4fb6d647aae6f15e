package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fasttrackbd/courier/internal/domain/parcel"
	"github.com/fasttrackbd/courier/internal/domain/webhook"
)

type ParcelsRepo interface {
	List(ctx context.Context) ([]parcel.Parcel, error)
	ListByClient(ctx context.Context, clientID string) ([]parcel.Parcel, error)
	GetByID(ctx context.Context, id string) (parcel.Parcel, error)
	Create(ctx context.Context, req parcel.CreateParcelRequest) (parcel.Parcel, error)
	UpdateStatus(ctx context.Context, id, status, note string) (parcel.Parcel, error)
	Delete(ctx context.Context, id string) error
	Track(ctx context.Context, id, phone string) (parcel.Parcel, error)
}

// StatusNotifier fans out webhook notifications after a status write. The
// call is fire-and-forget; the handler never waits on delivery.
type StatusNotifier interface {
	DispatchAsync(event string, data any)
}

type ParcelsHandler struct {
	repo     ParcelsRepo
	notifier StatusNotifier
}

func NewParcelsHandler(repo ParcelsRepo, notifier StatusNotifier) *ParcelsHandler {
	return &ParcelsHandler{repo: repo, notifier: notifier}
}

func (h *ParcelsHandler) ListParcels(ctx *gin.Context) {
	clientID := ctx.Query("clientId")

	var (
		parcels []parcel.Parcel
		err     error
	)

	if clientID != "" {
		parcels, err = h.repo.ListByClient(ctx.Request.Context(), clientID)
	} else {
		parcels, err = h.repo.List(ctx.Request.Context())
	}

	if err != nil {
		RespondInternal(ctx, "Could not list parcels")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": parcels,
		"count": len(parcels),
	})
}

func (h *ParcelsHandler) CreateParcel(ctx *gin.Context) {
	var req parcel.CreateParcelRequest

	if !BindJSON(ctx, &req) {
		return
	}

	p, err := h.repo.Create(ctx.Request.Context(), req)

	if err != nil {
		if errors.Is(err, parcel.ErrDuplicateID) {
			RespondConflict(ctx, "duplicate_id", "A parcel with that id already exists")
			return
		}

		RespondInternal(ctx, "Could not create parcel")
		return
	}

	ctx.JSON(http.StatusCreated, p)
}

func (h *ParcelsHandler) UpdateStatus(ctx *gin.Context) {
	id := ctx.Param("id")

	var req parcel.UpdateStatusRequest

	if !BindJSON(ctx, &req) {
		return
	}

	p, err := h.repo.UpdateStatus(ctx.Request.Context(), id, req.Status, req.Note)

	if err != nil {
		if errors.Is(err, parcel.ErrNotFound) {
			RespondNotFound(ctx, "Parcel not found")
			return
		}

		RespondInternal(ctx, "Could not update parcel")
		return
	}

	// notify after the write, never before
	h.notifier.DispatchAsync(webhook.EventStatusUpdate, p)

	ctx.JSON(http.StatusOK, p)
}

func (h *ParcelsHandler) DeleteParcel(ctx *gin.Context) {
	id := ctx.Param("id")

	err := h.repo.Delete(ctx.Request.Context(), id)

	if err != nil {
		if errors.Is(err, parcel.ErrNotFound) {
			RespondNotFound(ctx, "Parcel not found")
			return
		}

		RespondInternal(ctx, "Could not delete parcel")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Deleted successfully"})
}

// TrackParcel is the public lookup: tracking id plus the sender's phone,
// compared exactly.
func (h *ParcelsHandler) TrackParcel(ctx *gin.Context) {
	var req parcel.TrackRequest

	if !BindJSON(ctx, &req) {
		return
	}

	h.respondTrack(ctx, req.ID, req.Phone)
}

func (h *ParcelsHandler) respondTrack(ctx *gin.Context, id, phone string) {
	p, err := h.repo.Track(ctx.Request.Context(), id, phone)

	if err != nil {
		switch {
		case errors.Is(err, parcel.ErrNotFound):
			RespondNotFound(ctx, "Parcel not found")
		case errors.Is(err, parcel.ErrPhoneMismatch):
			RespondForbidden(ctx, "phone_mismatch", "Phone number does not match our records")
		default:
			RespondInternal(ctx, "Could not track parcel")
		}
		return
	}

	ctx.JSON(http.StatusOK, p)
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fasttrackbd/courier/internal/domain/parcel"
)

// PublicAPIHandler serves the versioned third-party API behind the API-key
// gate. It funnels into the same parcel repo as the first-party routes.
type PublicAPIHandler struct {
	repo ParcelsRepo
}

func NewPublicAPIHandler(repo ParcelsRepo) *PublicAPIHandler {
	return &PublicAPIHandler{repo: repo}
}

func (h *PublicAPIHandler) ListParcels(ctx *gin.Context) {
	parcels, err := h.repo.List(ctx.Request.Context())

	if err != nil {
		RespondInternal(ctx, "Could not list parcels")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": parcels,
		"count": len(parcels),
	})
}

func (h *PublicAPIHandler) GetParcel(ctx *gin.Context) {
	id := ctx.Param("id")

	p, err := h.repo.GetByID(ctx.Request.Context(), id)

	if err != nil {
		if errors.Is(err, parcel.ErrNotFound) {
			RespondNotFound(ctx, "Parcel not found")
			return
		}

		RespondInternal(ctx, "Could not fetch parcel")
		return
	}

	ctx.JSON(http.StatusOK, p)
}

func (h *PublicAPIHandler) CreateParcel(ctx *gin.Context) {
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

// TrackParcel takes the phone as a query parameter on the versioned API.
func (h *PublicAPIHandler) TrackParcel(ctx *gin.Context) {
	id := ctx.Param("id")
	phone := ctx.Query("phone")

	if phone == "" {
		RespondBadRequest(ctx, "phone query parameter is required", nil)
		return
	}

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

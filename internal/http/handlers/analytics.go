package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fasttrackbd/courier/internal/analytics"
)

type AnalyticsHandler struct {
	agg *analytics.Aggregator
}

func NewAnalyticsHandler(agg *analytics.Aggregator) *AnalyticsHandler {
	return &AnalyticsHandler{agg: agg}
}

func (h *AnalyticsHandler) Overview(ctx *gin.Context) {
	stats, err := h.agg.Overview(ctx.Request.Context())

	if err != nil {
		RespondInternal(ctx, "Could not compute overview")
		return
	}

	ctx.JSON(http.StatusOK, stats)
}

func (h *AnalyticsHandler) OrdersByStatus(ctx *gin.Context) {
	items, err := h.agg.OrdersByStatus(ctx.Request.Context())

	if err != nil {
		RespondInternal(ctx, "Could not compute orders by status")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *AnalyticsHandler) OrdersByType(ctx *gin.Context) {
	items, err := h.agg.OrdersByType(ctx.Request.Context())

	if err != nil {
		RespondInternal(ctx, "Could not compute orders by type")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *AnalyticsHandler) DailyTrend(ctx *gin.Context) {
	days := 7

	if raw := ctx.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)

		if err != nil || n <= 0 || n > 366 {
			RespondBadRequest(ctx, "days must be a positive integer", nil)
			return
		}
		days = n
	}

	trend, err := h.agg.DailyTrend(ctx.Request.Context(), days)

	if err != nil {
		RespondInternal(ctx, "Could not compute daily trend")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"items": trend})
}

func (h *AnalyticsHandler) RevenueByRange(ctx *gin.Context) {
	start := ctx.Query("start")
	end := ctx.Query("end")

	if start == "" || end == "" {
		RespondBadRequest(ctx, "start and end dates are required (YYYY-MM-DD)", nil)
		return
	}

	out, err := h.agg.RevenueByRange(ctx.Request.Context(), start, end)

	if err != nil {
		RespondBadRequest(ctx, err.Error(), nil)
		return
	}

	ctx.JSON(http.StatusOK, out)
}

func (h *AnalyticsHandler) RecentActivity(ctx *gin.Context) {
	limit := 10

	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)

		if err != nil || n <= 0 {
			RespondBadRequest(ctx, "limit must be a positive integer", nil)
			return
		}
		limit = n
	}

	items, err := h.agg.RecentActivity(ctx.Request.Context(), limit)

	if err != nil {
		RespondInternal(ctx, "Could not compute recent activity")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *AnalyticsHandler) ExportCSV(ctx *gin.Context) {
	out, err := h.agg.ExportCSV(ctx.Request.Context())

	if err != nil {
		RespondInternal(ctx, "Could not export analytics")
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="parcels.csv"`)
	ctx.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(out))
}

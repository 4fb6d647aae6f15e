// Package analytics derives dashboard numbers from the parcel collection.
// Everything is recomputed from a full load on each call; there is no
// incremental maintenance or caching.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fasttrackbd/courier/internal/domain/parcel"
)

// Notional per-type rates used for revenue figures. These are flat estimates
// and intentionally independent of the price quoted on individual orders.
var revenueRates = map[string]int{
	"Express":       500,
	"Regular":       300,
	"Fragile":       450,
	"International": 1200,
}

const defaultRate = 300

type ParcelSource interface {
	List(ctx context.Context) ([]parcel.Parcel, error)
}

type Aggregator struct {
	parcels ParcelSource
}

func NewAggregator(parcels ParcelSource) *Aggregator {
	return &Aggregator{parcels: parcels}
}

type Overview struct {
	TotalOrders  int    `json:"totalOrders"`
	Delivered    int    `json:"delivered"`
	InTransit    int    `json:"inTransit"`
	Pending      int    `json:"pending"`
	Cancelled    int    `json:"cancelled"`
	DeliveryRate string `json:"deliveryRate"`
	Revenue      int    `json:"revenue"`
}

type NameValue struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type TrendPoint struct {
	Date          string `json:"date"`
	Orders        int    `json:"orders"`
	FormattedDate string `json:"formattedDate"`
}

type DateRevenue struct {
	Date    string `json:"date"`
	Revenue int    `json:"revenue"`
}

type RevenueRange struct {
	TotalRevenue  int           `json:"totalRevenue"`
	RevenueByDate []DateRevenue `json:"revenueByDate"`
}

func rateFor(parcelType string) int {
	if r, ok := revenueRates[parcelType]; ok {
		return r
	}
	return defaultRate
}

func (a *Aggregator) Overview(ctx context.Context) (Overview, error) {
	parcels, err := a.parcels.List(ctx)

	if err != nil {
		return Overview{}, err
	}

	stats := Overview{
		TotalOrders:  len(parcels),
		DeliveryRate: "0.00",
	}

	for _, p := range parcels {
		switch p.Status {
		case parcel.StatusDelivered:
			stats.Delivered++
		case parcel.StatusInTransit:
			stats.InTransit++
		case parcel.StatusPending:
			stats.Pending++
		case parcel.StatusCancelled:
			stats.Cancelled++
		}

		stats.Revenue += rateFor(p.Type)
	}

	// guard the zero-parcel division
	if stats.TotalOrders > 0 {
		stats.DeliveryRate = fmt.Sprintf("%.2f", float64(stats.Delivered)/float64(stats.TotalOrders)*100)
	}

	return stats, nil
}

// OrdersByStatus groups by whatever literal status strings are stored,
// recognized or not.
func (a *Aggregator) OrdersByStatus(ctx context.Context) ([]NameValue, error) {
	parcels, err := a.parcels.List(ctx)

	if err != nil {
		return nil, err
	}

	return countBy(parcels, func(p parcel.Parcel) string { return p.Status }), nil
}

func (a *Aggregator) OrdersByType(ctx context.Context) ([]NameValue, error) {
	parcels, err := a.parcels.List(ctx)

	if err != nil {
		return nil, err
	}

	return countBy(parcels, func(p parcel.Parcel) string { return p.Type }), nil
}

func countBy(parcels []parcel.Parcel, key func(parcel.Parcel) string) []NameValue {
	counts := make(map[string]int)
	order := make([]string, 0)

	for _, p := range parcels {
		k := key(p)

		if _, seen := counts[k]; !seen {
			order = append(order, k)
		}
		counts[k]++
	}

	out := make([]NameValue, 0, len(order))

	for _, k := range order {
		out = append(out, NameValue{Name: k, Value: counts[k]})
	}

	return out
}

// DailyTrend counts parcels per day for a window of `days` ending today.
// The date match is an exact string comparison against the locally computed
// ISO date; parcels without a date are excluded.
func (a *Aggregator) DailyTrend(ctx context.Context, days int) ([]TrendPoint, error) {
	if days <= 0 {
		days = 7
	}

	parcels, err := a.parcels.List(ctx)

	if err != nil {
		return nil, err
	}

	perDay := make(map[string]int)

	for _, p := range parcels {
		if p.Date == "" {
			continue
		}
		perDay[p.Date]++
	}

	today := time.Now()
	trend := make([]TrendPoint, 0, days)

	for i := days - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		dateStr := day.Format("2006-01-02")

		trend = append(trend, TrendPoint{
			Date:          dateStr,
			Orders:        perDay[dateStr],
			FormattedDate: day.Format("Jan 2"),
		})
	}

	return trend, nil
}

// RevenueByRange sums the notional rates over an inclusive date window, plus
// a per-date breakdown in first-seen order. Unparseable dates are skipped.
func (a *Aggregator) RevenueByRange(ctx context.Context, start, end string) (RevenueRange, error) {
	parcels, err := a.parcels.List(ctx)

	if err != nil {
		return RevenueRange{}, err
	}

	startDay, err := time.Parse("2006-01-02", start)

	if err != nil {
		return RevenueRange{}, fmt.Errorf("invalid start date %q", start)
	}

	endDay, err := time.Parse("2006-01-02", end)

	if err != nil {
		return RevenueRange{}, fmt.Errorf("invalid end date %q", end)
	}

	out := RevenueRange{RevenueByDate: []DateRevenue{}}
	index := make(map[string]int)

	for _, p := range parcels {
		if p.Date == "" {
			continue
		}

		day, err := time.Parse("2006-01-02", p.Date)

		if err != nil {
			continue
		}

		if day.Before(startDay) || day.After(endDay) {
			continue
		}

		rev := rateFor(p.Type)
		out.TotalRevenue += rev

		i, seen := index[p.Date]

		if !seen {
			index[p.Date] = len(out.RevenueByDate)
			out.RevenueByDate = append(out.RevenueByDate, DateRevenue{Date: p.Date, Revenue: rev})
			continue
		}

		out.RevenueByDate[i].Revenue += rev
	}

	return out, nil
}

// RecentActivity returns the newest parcels by date. Parcels without a date
// sort as oldest, which keeps the comparator a total order.
func (a *Aggregator) RecentActivity(ctx context.Context, limit int) ([]parcel.Parcel, error) {
	if limit <= 0 {
		limit = 10
	}

	parcels, err := a.parcels.List(ctx)

	if err != nil {
		return nil, err
	}

	sorted := append([]parcel.Parcel{}, parcels...)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Date, sorted[j].Date

		if a == "" {
			return false
		}
		if b == "" {
			return true
		}
		// ISO dates compare correctly as strings
		return a > b
	})

	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	return sorted, nil
}

package jsonfile

import (
	"context"
	"time"

	"github.com/fasttrackbd/courier/internal/domain/parcel"
	"github.com/fasttrackbd/courier/internal/observability"
	storefile "github.com/fasttrackbd/courier/internal/store/jsonfile"
)

type ParcelsRepo struct {
	col  *storefile.Collection[parcel.Parcel]
	prom *observability.Prom
}

func NewParcelsRepo(col *storefile.Collection[parcel.Parcel], prom *observability.Prom) *ParcelsRepo {
	return &ParcelsRepo{col: col, prom: prom}
}

func (r *ParcelsRepo) List(ctx context.Context) ([]parcel.Parcel, error) {
	var items []parcel.Parcel

	err := r.prom.ObserveStore("parcels.list", func() error {
		var err error
		items, err = r.col.Load()
		return err
	})

	return items, err
}

// ListByClient filters on exact clientId equality, preserving store order.
func (r *ParcelsRepo) ListByClient(ctx context.Context, clientID string) ([]parcel.Parcel, error) {
	items, err := r.List(ctx)

	if err != nil {
		return nil, err
	}

	out := make([]parcel.Parcel, 0, len(items))

	for _, p := range items {
		if p.ClientID == clientID {
			out = append(out, p)
		}
	}

	return out, nil
}

func (r *ParcelsRepo) GetByID(ctx context.Context, id string) (parcel.Parcel, error) {
	items, err := r.List(ctx)

	if err != nil {
		return parcel.Parcel{}, err
	}

	for _, p := range items {
		if p.ID == id {
			return p, nil
		}
	}

	return parcel.Parcel{}, parcel.ErrNotFound
}

// Create takes the caller's fields verbatim, fills in the defaults (id, date,
// status, seed history entry) and inserts at the head of the collection.
// Most-recent-first ordering is a store convention, not a query-time sort.
func (r *ParcelsRepo) Create(ctx context.Context, req parcel.CreateParcelRequest) (parcel.Parcel, error) {
	p := parcel.Parcel{
		ID:            req.ID,
		Sender:        req.Sender,
		Receiver:      req.Receiver,
		SenderPhone:   req.SenderPhone,
		ReceiverPhone: req.ReceiverPhone,
		Type:          req.Type,
		Status:        req.Status,
		Date:          req.Date,
		ClientID:      req.ClientID,
		Price:         req.Price,
		Notes:         req.Notes,
		Address:       req.Address,
	}

	if p.ID == "" {
		p.ID = parcel.NewID()
	}

	if p.Status == "" {
		p.Status = parcel.StatusPending
	}

	if p.Date == "" {
		p.Date = parcel.Today()
	}

	p.StatusHistory = []parcel.StatusEntry{{
		Status:    p.Status,
		Timestamp: now(),
		Note:      "Order created",
	}}

	err := r.prom.ObserveStore("parcels.create", func() error {
		return r.col.Update(func(items []parcel.Parcel) ([]parcel.Parcel, error) {
			for _, existing := range items {
				if existing.ID == p.ID {
					return nil, parcel.ErrDuplicateID
				}
			}

			return append([]parcel.Parcel{p}, items...), nil
		})
	})

	if err != nil {
		return parcel.Parcel{}, err
	}

	return p, nil
}

// CreateBatch head-inserts a pre-built batch in one save; bulk import merges
// all valid rows here after processing every row.
func (r *ParcelsRepo) CreateBatch(ctx context.Context, batch []parcel.Parcel) error {
	if len(batch) == 0 {
		return nil
	}

	return r.prom.ObserveStore("parcels.create_batch", func() error {
		return r.col.Update(func(items []parcel.Parcel) ([]parcel.Parcel, error) {
			return append(append([]parcel.Parcel{}, batch...), items...), nil
		})
	})
}

// UpdateStatus overwrites the status and appends exactly one history entry.
// The history is owned by the store; callers only get to supply a note.
func (r *ParcelsRepo) UpdateStatus(ctx context.Context, id, status, note string) (parcel.Parcel, error) {
	if note == "" {
		note = "Status updated"
	}

	var updated parcel.Parcel

	err := r.prom.ObserveStore("parcels.update_status", func() error {
		return r.col.Update(func(items []parcel.Parcel) ([]parcel.Parcel, error) {
			for i := range items {
				if items[i].ID != id {
					continue
				}

				items[i].Status = status
				items[i].StatusHistory = append(items[i].StatusHistory, parcel.StatusEntry{
					Status:    status,
					Timestamp: now(),
					Note:      note,
				})
				updated = items[i]

				return items, nil
			}

			return nil, parcel.ErrNotFound
		})
	})

	if err != nil {
		return parcel.Parcel{}, err
	}

	return updated, nil
}

func (r *ParcelsRepo) Delete(ctx context.Context, id string) error {
	return r.prom.ObserveStore("parcels.delete", func() error {
		return r.col.Update(func(items []parcel.Parcel) ([]parcel.Parcel, error) {
			out := items[:0]
			found := false

			for _, p := range items {
				if p.ID == id {
					found = true
					continue
				}
				out = append(out, p)
			}

			if !found {
				return nil, parcel.ErrNotFound
			}

			return out, nil
		})
	})
}

// Track authorizes a public lookup by exact sender-phone equality. No
// normalization: case or whitespace differences fail.
func (r *ParcelsRepo) Track(ctx context.Context, id, phone string) (parcel.Parcel, error) {
	p, err := r.GetByID(ctx, id)

	if err != nil {
		return parcel.Parcel{}, err
	}

	if p.SenderPhone != phone {
		return parcel.Parcel{}, parcel.ErrPhoneMismatch
	}

	return p, nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

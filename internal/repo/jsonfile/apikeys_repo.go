package jsonfile

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/fasttrackbd/courier/internal/domain/apikey"
	"github.com/fasttrackbd/courier/internal/observability"
	storefile "github.com/fasttrackbd/courier/internal/store/jsonfile"
)

const keyPrefix = "ftc_"

type APIKeysRepo struct {
	col  *storefile.Collection[apikey.Key]
	prom *observability.Prom
}

func NewAPIKeysRepo(col *storefile.Collection[apikey.Key], prom *observability.Prom) *APIKeysRepo {
	return &APIKeysRepo{col: col, prom: prom}
}

func (r *APIKeysRepo) List(ctx context.Context) ([]apikey.Key, error) {
	var items []apikey.Key

	err := r.prom.ObserveStore("apikeys.list", func() error {
		var err error
		items, err = r.col.Load()
		return err
	})

	return items, err
}

func (r *APIKeysRepo) Generate(ctx context.Context, name, description string) (apikey.Key, error) {
	k := apikey.Key{
		ID:          uuid.NewString(),
		Key:         keyPrefix + strings.ReplaceAll(uuid.NewString(), "-", ""),
		Name:        name,
		Description: description,
		CreatedAt:   now(),
		UsageCount:  0,
		Active:      true,
	}

	err := r.prom.ObserveStore("apikeys.generate", func() error {
		return r.col.Update(func(items []apikey.Key) ([]apikey.Key, error) {
			return append(items, k), nil
		})
	})

	if err != nil {
		return apikey.Key{}, err
	}

	return k, nil
}

// VerifyAndTouch matches a raw key against stored active keys and records the
// use. The usage bump is an observable side effect of every authenticated
// call, reads included.
func (r *APIKeysRepo) VerifyAndTouch(ctx context.Context, raw string) (apikey.Key, error) {
	var matched apikey.Key

	err := r.prom.ObserveStore("apikeys.verify", func() error {
		return r.col.Update(func(items []apikey.Key) ([]apikey.Key, error) {
			for i := range items {
				if items[i].Key != raw || !items[i].Active {
					continue
				}

				ts := now()
				items[i].LastUsed = &ts
				items[i].UsageCount++
				matched = items[i]

				return items, nil
			}

			return nil, apikey.ErrInvalid
		})
	})

	if err != nil {
		return apikey.Key{}, err
	}

	return matched, nil
}

// Revoke is soft: the record stays for auditing with active=false.
func (r *APIKeysRepo) Revoke(ctx context.Context, id string) error {
	return r.prom.ObserveStore("apikeys.revoke", func() error {
		return r.col.Update(func(items []apikey.Key) ([]apikey.Key, error) {
			for i := range items {
				if items[i].ID != id {
					continue
				}

				ts := now()
				items[i].Active = false
				items[i].RevokedAt = &ts

				return items, nil
			}

			return nil, apikey.ErrNotFound
		})
	})
}

func (r *APIKeysRepo) Delete(ctx context.Context, id string) error {
	return r.prom.ObserveStore("apikeys.delete", func() error {
		return r.col.Update(func(items []apikey.Key) ([]apikey.Key, error) {
			out := items[:0]
			found := false

			for _, k := range items {
				if k.ID == id {
					found = true
					continue
				}
				out = append(out, k)
			}

			if !found {
				return nil, apikey.ErrNotFound
			}

			return out, nil
		})
	})
}

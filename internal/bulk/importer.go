// Package bulk turns tabular uploads (CSV or XLSX) into parcel records.
// Rows are validated one at a time; bad rows are reported and skipped, good
// rows are merged into the store in a single batch save at the end.
package bulk

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fasttrackbd/courier/internal/domain/parcel"
)

type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

type Result struct {
	Created []parcel.Parcel `json:"created"`
	Errors  []RowError      `json:"errors"`
}

type ParcelBatchWriter interface {
	CreateBatch(ctx context.Context, batch []parcel.Parcel) error
}

type Importer struct {
	repo ParcelBatchWriter
}

func NewImporter(repo ParcelBatchWriter) *Importer {
	return &Importer{repo: repo}
}

// Import processes every row before touching the store. Row numbers in
// errors are 1-indexed and offset by the header row, so the first data row
// reports as row 2.
func (imp *Importer) Import(ctx context.Context, rows [][]string) (Result, error) {
	result := Result{
		Created: []parcel.Parcel{},
		Errors:  []RowError{},
	}

	if len(rows) == 0 {
		return result, nil
	}

	cols := headerIndex(rows[0])
	nowMs := time.Now().UnixMilli()

	for i, row := range rows[1:] {
		rowNum := i + 2

		p, err := buildRow(cols, row)

		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Error: err.Error()})
			continue
		}

		if p.ID == "" {
			p.ID = fmt.Sprintf("FT-%d-%d", nowMs, rowNum)
		}

		result.Created = append(result.Created, p)
	}

	if len(result.Created) > 0 {
		if err := imp.repo.CreateBatch(ctx, result.Created); err != nil {
			return Result{}, err
		}
	}

	return result, nil
}

// headerIndex maps normalized column names to positions. "Sender Phone",
// "senderPhone" and "sender_phone" all land on the same key.
func headerIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))

	for i, name := range header {
		key := strings.ToLower(name)
		key = strings.ReplaceAll(key, " ", "")
		key = strings.ReplaceAll(key, "_", "")
		key = strings.TrimSpace(key)

		if key != "" {
			cols[key] = i
		}
	}

	return cols
}

func buildRow(cols map[string]int, row []string) (parcel.Parcel, error) {
	get := func(key string) string {
		i, ok := cols[key]

		if !ok || i >= len(row) {
			return ""
		}

		return strings.TrimSpace(row[i])
	}

	sender := get("sender")
	receiver := get("receiver")
	parcelType := get("type")

	switch {
	case sender == "":
		return parcel.Parcel{}, fmt.Errorf("missing required field: Sender")
	case receiver == "":
		return parcel.Parcel{}, fmt.Errorf("missing required field: Receiver")
	case parcelType == "":
		return parcel.Parcel{}, fmt.Errorf("missing required field: Type")
	}

	status := get("status")

	if status == "" {
		status = parcel.StatusPending
	}

	date := get("date")

	if date == "" {
		date = parcel.Today()
	}

	price := 0

	if raw := get("price"); raw != "" {
		// price is client-supplied and trusted; unparseable values fall to 0
		price, _ = strconv.Atoi(raw)
	}

	p := parcel.Parcel{
		ID:            get("id"),
		Sender:        sender,
		Receiver:      receiver,
		SenderPhone:   get("senderphone"),
		ReceiverPhone: get("receiverphone"),
		Type:          parcelType,
		Status:        status,
		Date:          date,
		ClientID:      get("clientid"),
		Price:         price,
		Notes:         get("notes"),
		Address:       get("address"),
		StatusHistory: []parcel.StatusEntry{{
			Status:    status,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Note:      "Created via bulk upload",
		}},
	}

	return p, nil
}

package bulk_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fasttrackbd/courier/internal/bulk"
	"github.com/fasttrackbd/courier/internal/domain/parcel"
)

type fakeBatchWriter struct {
	batches [][]parcel.Parcel
	err     error
}

func (f *fakeBatchWriter) CreateBatch(ctx context.Context, batch []parcel.Parcel) error {
	if f.err != nil {
		return f.err
	}

	f.batches = append(f.batches, batch)
	return nil
}

func TestImport(t *testing.T) {
	rows := [][]string{
		{"Sender", "Receiver", "Sender Phone", "Type", "Status", "Date", "Price"},
		{"Rahim Traders", "Karim", "01711111111", "Express", "In Transit", "2026-08-10", "150"},
		{"Acme Ltd", "", "01722222222", "Regular", "", "", ""},
		{"Dina Stores", "Habib", "", "Fragile", "", "", "not-a-number"},
	}

	writer := &fakeBatchWriter{}
	imp := bulk.NewImporter(writer)

	result, err := imp.Import(context.Background(), rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Created) != 2 {
		t.Fatalf("got %d created, want 2: %+v", len(result.Created), result)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("got %d errors, want 1: %+v", len(result.Errors), result)
	}

	// the bad row is the second data row, reported with the header offset
	if result.Errors[0].Row != 3 {
		t.Fatalf("got error row %d, want 3", result.Errors[0].Row)
	}
	if result.Errors[0].Error != "missing required field: Receiver" {
		t.Fatalf("got error %q", result.Errors[0].Error)
	}

	first := result.Created[0]

	if first.Sender != "Rahim Traders" || first.SenderPhone != "01711111111" {
		t.Fatalf("first row mapped wrong: %+v", first)
	}
	if first.Status != "In Transit" || first.Date != "2026-08-10" || first.Price != 150 {
		t.Fatalf("first row values wrong: %+v", first)
	}
	if !strings.HasPrefix(first.ID, "FT-") {
		t.Fatalf("generated id %q missing prefix", first.ID)
	}
	if len(first.StatusHistory) != 1 || first.StatusHistory[0].Note != "Created via bulk upload" {
		t.Fatalf("history not seeded: %+v", first.StatusHistory)
	}

	second := result.Created[1]

	// defaults for omitted status/date, unparseable price falls to zero
	if second.Status != parcel.StatusPending {
		t.Fatalf("got status %q, want default pending", second.Status)
	}
	if second.Date != parcel.Today() {
		t.Fatalf("got date %q, want today", second.Date)
	}
	if second.Price != 0 {
		t.Fatalf("got price %d, want 0", second.Price)
	}

	// all good rows land in one batch save
	if len(writer.batches) != 1 || len(writer.batches[0]) != 2 {
		t.Fatalf("expected one batch of 2, got %+v", writer.batches)
	}
}

func TestImportHeaderNormalization(t *testing.T) {
	// snake_case, camelCase and spaced headers all map to the same columns
	rows := [][]string{
		{"sender", "RECEIVER", "senderPhone", "type", "client_id"},
		{"A", "B", "0171", "Regular", "USER-7"},
	}

	writer := &fakeBatchWriter{}
	imp := bulk.NewImporter(writer)

	result, err := imp.Import(context.Background(), rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Created) != 1 {
		t.Fatalf("got %d created, want 1: %+v", len(result.Created), result)
	}
	if result.Created[0].SenderPhone != "0171" || result.Created[0].ClientID != "USER-7" {
		t.Fatalf("normalized headers not mapped: %+v", result.Created[0])
	}
}

func TestImportEmpty(t *testing.T) {
	writer := &fakeBatchWriter{}
	imp := bulk.NewImporter(writer)

	result, err := imp.Import(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Created) != 0 || len(result.Errors) != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
	if len(writer.batches) != 0 {
		t.Fatalf("store should not be touched for empty input")
	}
}

func TestImportStoreError(t *testing.T) {
	rows := [][]string{
		{"Sender", "Receiver", "Type"},
		{"A", "B", "Regular"},
	}

	imp := bulk.NewImporter(&fakeBatchWriter{err: errors.New("disk error")})

	if _, err := imp.Import(context.Background(), rows); err == nil {
		t.Fatalf("expected batch save error to surface")
	}
}

func TestReadRowsCSV(t *testing.T) {
	csvData := "Sender,Receiver,Type\n\"Acme, Ltd\",Karim,Express\nShort\n"

	rows, err := bulk.ReadRows(strings.NewReader(csvData), "parcels.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if rows[1][0] != "Acme, Ltd" {
		t.Fatalf("quoted field mangled: %+v", rows[1])
	}
	// ragged rows are allowed; the importer validates them later
	if len(rows[2]) != 1 {
		t.Fatalf("expected short row to survive: %+v", rows[2])
	}
}

func TestReadRowsUnsupportedExtension(t *testing.T) {
	if _, err := bulk.ReadRows(strings.NewReader("x"), "parcels.pdf"); err == nil {
		t.Fatalf("expected unsupported file type error")
	}
}

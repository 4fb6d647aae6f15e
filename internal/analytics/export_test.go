package analytics_test

import (
	"context"
	"strings"
	"testing"

	"github.com/fasttrackbd/courier/internal/analytics"
	"github.com/fasttrackbd/courier/internal/domain/parcel"
)

func TestExportCSV(t *testing.T) {
	src := &fakeSource{parcels: []parcel.Parcel{
		{ID: "FT-1", Sender: "Rahim Traders", Receiver: "Karim", Type: "Express", Status: parcel.StatusDelivered, Date: "2026-08-10", SenderPhone: "01711111111"},
		{ID: "FT-2", Sender: `Acme "Premium", Ltd`, Receiver: "Dina", Type: "Regular", Status: parcel.StatusPending},
	}}

	agg := analytics.NewAggregator(src)

	out, err := agg.ExportCSV(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %q", len(lines), out)
	}
	if lines[0] != "ID,Sender,Receiver,Type,Status,Date,Phone" {
		t.Fatalf("bad header: %q", lines[0])
	}

	// a sender with quotes and a comma must come out quoted and escaped
	if !strings.Contains(lines[2], `"Acme ""Premium"", Ltd"`) {
		t.Fatalf("embedded quotes not escaped: %q", lines[2])
	}

	// missing date and phone render as N/A
	if !strings.HasSuffix(lines[2], "N/A,N/A") {
		t.Fatalf("missing fields not defaulted: %q", lines[2])
	}
}

package analytics

import (
	"context"
	"encoding/csv"
	"strings"
)

var exportHeader = []string{"ID", "Sender", "Receiver", "Type", "Status", "Date", "Phone"}

// ExportCSV renders the whole parcel collection with a fixed column set.
// encoding/csv handles quoting, so embedded quotes and separators come out as
// valid CSV.
func (a *Aggregator) ExportCSV(ctx context.Context) (string, error) {
	parcels, err := a.parcels.List(ctx)

	if err != nil {
		return "", err
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write(exportHeader); err != nil {
		return "", err
	}

	for _, p := range parcels {
		date := p.Date
		if date == "" {
			date = "N/A"
		}

		phone := p.SenderPhone
		if phone == "" {
			phone = "N/A"
		}

		row := []string{p.ID, p.Sender, p.Receiver, p.Type, p.Status, date, phone}

		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

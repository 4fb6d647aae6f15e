package parcel

import (
	"errors"
	"fmt"
	"time"
)

// Canonical statuses. The set is open in practice: whatever string is stored
// is what analytics group by, so these are defaults rather than an enum.
const (
	StatusPending   = "Pending Approval"
	StatusInTransit = "In Transit"
	StatusDelivered = "Delivered"
	StatusCancelled = "Cancelled"
)

type StatusEntry struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Note      string `json:"note,omitempty"`
}

type Parcel struct {
	ID            string        `json:"id"`
	Sender        string        `json:"sender"`
	Receiver      string        `json:"receiver"`
	SenderPhone   string        `json:"senderPhone,omitempty"`
	ReceiverPhone string        `json:"receiverPhone,omitempty"`
	Type          string        `json:"type"`
	Status        string        `json:"status"`
	Date          string        `json:"date,omitempty"` // YYYY-MM-DD
	ClientID      string        `json:"clientId,omitempty"`
	Price         int           `json:"price,omitempty"`
	StatusHistory []StatusEntry `json:"statusHistory,omitempty"`
	Notes         string        `json:"notes,omitempty"`
	Address       string        `json:"address,omitempty"`
}

var (
	ErrNotFound      = errors.New("parcel not found")
	ErrDuplicateID   = errors.New("parcel id already exists")
	ErrPhoneMismatch = errors.New("sender phone does not match")
)

// CreateParcelRequest deliberately carries no required bindings: the order
// form, the bulk importer and the public API all submit whatever fields they
// have and the repo fills in the rest.
type CreateParcelRequest struct {
	ID            string `json:"id"`
	Sender        string `json:"sender"`
	Receiver      string `json:"receiver"`
	SenderPhone   string `json:"senderPhone"`
	ReceiverPhone string `json:"receiverPhone"`
	Type          string `json:"type"`
	Status        string `json:"status"`
	Date          string `json:"date"`
	ClientID      string `json:"clientId"`
	Price         int    `json:"price"`
	Notes         string `json:"notes"`
	Address       string `json:"address"`
}

// Status changes are recorded server-side only; callers cannot replace the
// stored history.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note" binding:"omitempty,max=500"`
}

type TrackRequest struct {
	ID    string `json:"id" binding:"required"`
	Phone string `json:"phone" binding:"required"`
}

// NewID returns a fresh tracking id in the FT-<millis> shape the store uses.
func NewID() string {
	return fmt.Sprintf("FT-%d", time.Now().UnixMilli())
}

// Today is the default for the date field: the local calendar day.
func Today() string {
	return time.Now().Format("2006-01-02")
}

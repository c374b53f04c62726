package notification

import (
	"time"

	"github.com/shopspring/decimal"
)

// State is a notification job's position in its lifecycle. Jobs move
// Scheduled -> Attempting -> Delivered or Exhausted; the last two are
// terminal.
type State string

const (
	StateScheduled  State = "scheduled"
	StateAttempting State = "attempting"
	StateDelivered  State = "delivered"
	StateExhausted  State = "exhausted"
)

// Notification is the payload delivered to the recipient after a
// committed transfer.
type Notification struct {
	RecipientID uint            `json:"recipient_id"`
	SenderID    uint            `json:"sender_id"`
	Amount      decimal.Decimal `json:"amount"`
	GroupID     string          `json:"transaction_group"`
}

// job tracks one notification through its retry lifecycle, keyed by the
// transfer group id.
type job struct {
	Notification
	Attempts int
}

// Config holds dispatcher tuning. Zero values fall back to defaults.
type Config struct {
	Workers    int
	QueueSize  int
	MaxRetries int // retries after the first attempt
	RetryDelay time.Duration
}

// Default dispatcher configuration
const (
	DefaultWorkers    = 4
	DefaultQueueSize  = 256
	DefaultMaxRetries = 3
	DefaultRetryDelay = 3 * time.Second
)

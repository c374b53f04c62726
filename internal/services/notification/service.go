// Package notification delivers best-effort transfer notifications with
// bounded retries. Delivery failures never reach the ledger: a transfer
// is complete the moment its storage transaction commits, and a
// notification that exhausts its retries is only logged for manual
// follow-up.
package notification

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Dispatcher owns the notification queue and worker pool. Schedule never
// blocks the caller: when the queue is full the notification is dropped
// and logged, because the transfer it belongs to has already committed.
type Dispatcher struct {
	sender Sender
	config Config

	queue chan *job
	done  chan struct{}
	wg    sync.WaitGroup

	mu     sync.Mutex
	states map[string]State
}

// NewDispatcher creates a dispatcher with the given sender. Zero config
// fields fall back to defaults.
func NewDispatcher(sender Sender, config Config) *Dispatcher {
	if sender == nil {
		panic("sender is required")
	}
	if config.Workers <= 0 {
		config.Workers = DefaultWorkers
	}
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultQueueSize
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = DefaultMaxRetries
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = DefaultRetryDelay
	}

	return &Dispatcher{
		sender: sender,
		config: config,
		queue:  make(chan *job, config.QueueSize),
		done:   make(chan struct{}),
		states: make(map[string]State),
	}
}

// Start launches the worker pool.
func (d *Dispatcher) Start() {
	for i := 0; i < d.config.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
}

// Stop shuts the workers down. Jobs waiting on a retry timer are dropped.
func (d *Dispatcher) Stop() {
	close(d.done)
	d.wg.Wait()
}

// Schedule enqueues a notification for the recipient of a committed
// transfer. Fire-and-forget: a full queue is logged and the notification
// dropped.
func (d *Dispatcher) Schedule(recipientID uint, amount decimal.Decimal, senderID uint, groupID string) {
	j := &job{Notification: Notification{
		RecipientID: recipientID,
		SenderID:    senderID,
		Amount:      amount,
		GroupID:     groupID,
	}}
	d.setState(groupID, StateScheduled)

	select {
	case d.queue <- j:
	default:
		log.Printf("notification queue full, dropping notification for group %s", groupID)
	}
}

// Status reports the lifecycle state of the notification for a transfer
// group.
func (d *Dispatcher) Status(groupID string) (State, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.states[groupID]
	return s, ok
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for {
		select {
		case j := <-d.queue:
			d.process(j)
		case <-d.done:
			return
		}
	}
}

func (d *Dispatcher) process(j *job) {
	attempt := j.Attempts + 1
	totalAttempts := d.config.MaxRetries + 1

	d.setState(j.GroupID, StateAttempting)
	log.Printf("[attempt %d/%d] sending notification to wallet %d (group %s)",
		attempt, totalAttempts, j.RecipientID, j.GroupID)

	err := d.sender.Send(context.Background(), j.Notification)
	if err == nil {
		d.setState(j.GroupID, StateDelivered)
		log.Printf("notification delivered to wallet %d (group %s)", j.RecipientID, j.GroupID)
		return
	}

	j.Attempts = attempt
	if j.Attempts > d.config.MaxRetries {
		d.setState(j.GroupID, StateExhausted)
		log.Printf("notification retries exhausted for wallet %d (group %s): %v; manual follow-up required",
			j.RecipientID, j.GroupID, err)
		return
	}

	log.Printf("notification attempt %d/%d failed for group %s: %v; retrying in %s",
		attempt, totalAttempts, j.GroupID, err, d.config.RetryDelay)
	d.requeueAfter(j, d.config.RetryDelay)
}

func (d *Dispatcher) requeueAfter(j *job, delay time.Duration) {
	time.AfterFunc(delay, func() {
		select {
		case d.queue <- j:
		case <-d.done:
		default:
			d.setState(j.GroupID, StateExhausted)
			log.Printf("notification queue full on retry, giving up on group %s", j.GroupID)
		}
	})
}

func (d *Dispatcher) setState(groupID string, s State) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.states[groupID] = s
}

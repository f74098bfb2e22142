package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
	KindConfirm Kind = "confirm"
)

// DefaultDuration applies when an alert does not set one.
const DefaultDuration = 5 * time.Second

// Action is an optional affordance rendered with the notification, e.g. a
// retry button on an error.
type Action struct {
	Label   string
	OnClick func()
}

// Alert describes a notification to show. A nil Duration means
// DefaultDuration; an explicit zero disables auto-expiry.
type Alert struct {
	Kind     Kind
	Title    string
	Message  string
	Duration *time.Duration
	Action   *Action
}

type Notification struct {
	ID        string
	Kind      Kind
	Title     string
	Message   string
	Duration  time.Duration
	Action    *Action
	OnConfirm func()
	OnCancel  func()
}

type item struct {
	Notification
	timer *time.Timer
}

// Notifier is the queue owner: any caller may enqueue, only the notifier
// removes. Display order is insertion order.
type Notifier struct {
	mu    sync.Mutex
	items []*item
}

func NewNotifier() *Notifier {
	return &Notifier{}
}

// Show enqueues an alert and returns its id. Auto-expiring alerts schedule
// their own removal; the timer is cancelled if the alert is dismissed first.
func (n *Notifier) Show(a Alert) string {
	duration := DefaultDuration
	if a.Duration != nil {
		duration = *a.Duration
	}
	return n.add(Notification{
		ID:       uuid.NewString(),
		Kind:     a.Kind,
		Title:    a.Title,
		Message:  a.Message,
		Duration: duration,
		Action:   a.Action,
	})
}

// ShowConfirm enqueues a confirmation dialog. It never expires by timer and
// is removed only through Confirm or Cancel.
func (n *Notifier) ShowConfirm(message, title string, onConfirm func()) string {
	return n.add(Notification{
		ID:        uuid.NewString(),
		Kind:      KindConfirm,
		Title:     title,
		Message:   message,
		OnConfirm: onConfirm,
	})
}

func (n *Notifier) add(notif Notification) string {
	it := &item{Notification: notif}

	// The timer starts under the lock, after the item is in the queue. A
	// timer that fires immediately blocks on the mutex until the insert is
	// visible, so the expiry can never miss its own notification.
	n.mu.Lock()
	n.items = append(n.items, it)
	if notif.Kind != KindConfirm && notif.Duration > 0 {
		id := notif.ID
		it.timer = time.AfterFunc(notif.Duration, func() {
			n.Dismiss(id)
		})
	}
	n.mu.Unlock()
	return notif.ID
}

// Dismiss removes a notification. Dismissing an unknown or already removed
// id is a no-op.
func (n *Notifier) Dismiss(id string) {
	n.remove(id)
}

// Confirm runs the confirm callback and removes the dialog.
func (n *Notifier) Confirm(id string) {
	notif, ok := n.remove(id)
	if ok && notif.OnConfirm != nil {
		notif.OnConfirm()
	}
}

// Cancel removes the dialog, running the cancel callback when present.
func (n *Notifier) Cancel(id string) {
	notif, ok := n.remove(id)
	if ok && notif.OnCancel != nil {
		notif.OnCancel()
	}
}

func (n *Notifier) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, it := range n.items {
		if it.timer != nil {
			it.timer.Stop()
		}
	}
	n.items = nil
}

// Notifications returns the live queue in insertion order.
func (n *Notifier) Notifications() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Notification, len(n.items))
	for i, it := range n.items {
		out[i] = it.Notification
	}
	return out
}

func (n *Notifier) remove(id string) (Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i, it := range n.items {
		if it.ID == id {
			if it.timer != nil {
				it.timer.Stop()
			}
			n.items = append(n.items[:i], n.items[i+1:]...)
			return it.Notification, true
		}
	}
	return Notification{}, false
}

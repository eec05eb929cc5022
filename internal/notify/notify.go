package notify

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID        string
	Title     string
	Message   string
	Read      bool
	CreatedAt time.Time
}

// Feed holds notifications newest first.
type Feed struct {
	items []Notification
	now   func() time.Time
}

func NewFeed(now func() time.Time, seed ...Notification) *Feed {
	if now == nil {
		now = time.Now
	}
	return &Feed{items: slices.Clone(seed), now: now}
}

func (f *Feed) List() []Notification {
	return slices.Clone(f.items)
}

func (f *Feed) UnreadCount() int {
	n := 0
	for _, it := range f.items {
		if !it.Read {
			n++
		}
	}
	return n
}

// MarkRead flags one notification as read. Unknown ids are ignored.
func (f *Feed) MarkRead(id string) {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Read = true
			return
		}
	}
}

func (f *Feed) MarkAllRead() {
	for i := range f.items {
		f.items[i].Read = true
	}
}

// Add prepends an unread notification dated today.
func (f *Feed) Add(title, message string) Notification {
	y, m, d := f.now().Date()
	n := Notification{
		ID:        uuid.NewString(),
		Title:     title,
		Message:   message,
		CreatedAt: time.Date(y, m, d, 0, 0, 0, 0, f.now().Location()),
	}
	f.items = append([]Notification{n}, f.items...)
	return n
}

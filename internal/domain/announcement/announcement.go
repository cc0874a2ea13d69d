package announcement

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Announcement is a short rotating message shown on the landing page,
// manually ordered by position.
type Announcement struct {
	id        uuid.UUID
	text      string
	position  int
	visible   bool
	createdAt time.Time
	updatedAt time.Time
}

// New creates an announcement at the given position.
func New(text string, position int) (*Announcement, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("announcement text is required")
	}
	now := time.Now().UTC()
	return &Announcement{
		id:        uuid.New(),
		text:      text,
		position:  position,
		visible:   true,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds an Announcement from persistence.
func Reconstruct(id uuid.UUID, text string, position int, visible bool, createdAt, updatedAt time.Time) *Announcement {
	return &Announcement{
		id: id, text: text, position: position, visible: visible,
		createdAt: createdAt, updatedAt: updatedAt,
	}
}

// Getters.
func (a *Announcement) ID() uuid.UUID       { return a.id }
func (a *Announcement) Text() string        { return a.text }
func (a *Announcement) Position() int       { return a.position }
func (a *Announcement) Visible() bool       { return a.visible }
func (a *Announcement) CreatedAt() time.Time { return a.createdAt }
func (a *Announcement) UpdatedAt() time.Time { return a.updatedAt }

// SetText updates the message text.
func (a *Announcement) SetText(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("announcement text is required")
	}
	a.text = text
	a.touch()
	return nil
}

// SetVisible toggles display.
func (a *Announcement) SetVisible(visible bool) {
	a.visible = visible
	a.touch()
}

// SetPosition moves the announcement in the display order.
func (a *Announcement) SetPosition(position int) {
	a.position = position
	a.touch()
}

func (a *Announcement) touch() { a.updatedAt = time.Now().UTC() }

// SortForDisplay orders announcements by position ascending, ties broken by
// most recent creation first.
func SortForDisplay(items []*Announcement) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].position != items[j].position {
			return items[i].position < items[j].position
		}
		return items[i].createdAt.After(items[j].createdAt)
	})
}

// Defaults returns the seed announcements used when the feed is empty.
func Defaults() []string {
	return []string{
		"Latest project bulletin: AI-powered predictive maintenance system deployed",
		"New helicopter maintenance module launched with 95% accuracy rate",
		"Partnership with major airline for fleet-wide implementation announced",
		"Cost reduction of 35% achieved across all client operations this quarter",
		"Advanced rotor blade inspection technology now available",
		"AMMSTRO wins Aviation Innovation Award 2024",
		"Real-time analytics dashboard upgraded with new features",
		"Enhanced security protocols implemented for military aircraft maintenance",
	}
}

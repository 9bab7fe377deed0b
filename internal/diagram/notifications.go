package diagram

import "time"

type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notification is a dismissible message shown to the user.
type Notification struct {
	ID      uint64    `json:"id"`
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
	At      time.Time `json:"at"`
}

// notifyLocked records a notification. c.mu must be held.
func (c *Controller) notifyLocked(level Level, msg string, err error) {
	c.noteSeq++
	c.notes = append(c.notes, Notification{
		ID:      c.noteSeq,
		Level:   level,
		Message: msg,
		Err:     err,
		At:      c.now(),
	})
}

// Notifications returns the undismissed notifications, oldest first.
func (c *Controller) Notifications() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notification, len(c.notes))
	copy(out, c.notes)
	return out
}

// Dismiss removes a notification; it reports whether id was present.
func (c *Controller) Dismiss(id uint64) bool {
	c.mu.Lock()
	found := false
	for i, n := range c.notes {
		if n.ID == id {
			c.notes = append(c.notes[:i], c.notes[i+1:]...)
			found = true
			break
		}
	}
	c.mu.Unlock()
	if found {
		c.changed()
	}
	return found
}

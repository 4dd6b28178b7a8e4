package review

import "time"

const (
	DefaultSubmitCooldown     = 24 * time.Hour
	DefaultDeleteWindow       = 24 * time.Hour
	DefaultMaxDeletionsPerDay = 3
)

// Policy holds the timing rules. SubmitCooldown is measured from the last
// submission anywhere; DeleteWindow from the creation of the review being
// deleted. They are kept apart even though both default to a day.
type Policy struct {
	SubmitCooldown     time.Duration
	DeleteWindow       time.Duration
	MaxDeletionsPerDay int
	// Location decides where a calendar day starts for the deletion quota.
	Location *time.Location
}

func DefaultPolicy() Policy {
	return Policy{
		SubmitCooldown:     DefaultSubmitCooldown,
		DeleteWindow:       DefaultDeleteWindow,
		MaxDeletionsPerDay: DefaultMaxDeletionsPerDay,
		Location:           time.Local,
	}
}

func (p Policy) withDefaults() Policy {
	d := DefaultPolicy()
	if p.SubmitCooldown <= 0 {
		p.SubmitCooldown = d.SubmitCooldown
	}
	if p.DeleteWindow <= 0 {
		p.DeleteWindow = d.DeleteWindow
	}
	if p.MaxDeletionsPerDay <= 0 {
		p.MaxDeletionsPerDay = d.MaxDeletionsPerDay
	}
	if p.Location == nil {
		p.Location = d.Location
	}
	return p
}

// dayKey matches the JavaScript Date.toDateString() format used by the
// mobile client, e.g. "Thu Oct 15 2026".
func (p Policy) dayKey(t time.Time) string {
	return t.In(p.Location).Format("Mon Jan 02 2006")
}

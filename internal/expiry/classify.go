package expiry

import (
	"time"

	"github.com/tair/hardware-inventory/internal/catalog"
)

// urgentDays is the urgency boundary: a non-expired product with this many
// days or fewer until expiry is urgent.
const urgentDays = 7

// Windows is the fixed set of lookahead windows, in days
var Windows = []int{7, 14, 30, 60, 90}

// DefaultWindow is the lookahead used until the user picks another
const DefaultWindow = 30

// ValidWindow reports whether days is one of the fixed windows
func ValidWindow(days int) bool {
	for _, w := range Windows {
		if w == days {
			return true
		}
	}
	return false
}

// Status is the derived freshness category of a product. It is computed
// from the expiry date and the current time, never stored.
type Status int

const (
	StatusExpired Status = iota
	StatusUrgent
	StatusWarning
)

func (s Status) String() string {
	switch s {
	case StatusExpired:
		return "expired"
	case StatusUrgent:
		return "urgent"
	case StatusWarning:
		return "warning"
	}
	return "unknown"
}

// DaysUntil returns the number of calendar days from now until expiry,
// rounding partial days up toward the boundary. It is zero exactly when now
// equals the expiry instant and negative once the date has passed.
func DaysUntil(expiry catalog.Date, now time.Time) int {
	diff := expiry.Time.Sub(now)
	days := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) > 0 {
		days++
	}
	return days
}

// Classify derives the freshness category of a product relative to now.
// Expired takes precedence; urgent applies within the 7-day boundary; every
// other product in a window result is a warning.
func Classify(p catalog.Product, now time.Time) Status {
	if p.ExpiryDate.Time.Before(now) {
		return StatusExpired
	}
	if DaysUntil(p.ExpiryDate, now) <= urgentDays {
		return StatusUrgent
	}
	return StatusWarning
}

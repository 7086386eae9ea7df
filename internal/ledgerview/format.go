package ledgerview

import (
	"fmt"
	"iter"
	"math"
	"time"

	"github.com/go-petr/pet-bank-client/internal/domain"
)

const (
	// RecentWindow is how far back a transaction is shown with relative time.
	RecentWindow = 24 * time.Hour
	// DateLayout is the absolute format used outside of the recent window.
	DateLayout = "2006-01-02 15:04:05"
)

// Row is a transaction prepared for display.
type Row struct {
	ID     string
	When   string
	Type   string
	Amount string
}

// IsRecent reports whether ts lies strictly within RecentWindow before now.
// A timestamp exactly RecentWindow old is not recent.
func IsRecent(ts, now time.Time) bool {
	return ts.After(now.Add(-RecentWindow))
}

// FormatTime renders ts relative to now when recent, otherwise as an absolute
// date in the location of now. Timestamps RecentWindow or more ahead of now
// are absolute as well.
func FormatTime(ts, now time.Time) string {
	if IsRecent(ts, now) && ts.Before(now.Add(RecentWindow)) {
		return relative(ts, now)
	}

	return ts.In(now.Location()).Format(DateLayout)
}

// Rows renders txs for display, keeping their order.
func Rows(txs []domain.Transaction, now time.Time) []Row {
	rows := make([]Row, 0, len(txs))

	for _, tx := range txs {
		rows = append(rows, Row{
			ID:     tx.ID.String(),
			When:   FormatTime(tx.Date, now),
			Type:   tx.Type,
			Amount: tx.Amount.StringFixed(2),
		})
	}

	return rows
}

// Recent is a shortcut for the dashboard table: newest first, bounded, rendered.
func Recent(txs iter.Seq[domain.Transaction], limit int, now time.Time) []Row {
	return Rows(RecentFirst(txs, limit), now)
}

func relative(ts, now time.Time) string {
	d := now.Sub(ts)

	future := d < 0
	if future {
		d = -d
	}

	var phrase string

	switch secs, mins, hours := math.Round(d.Seconds()), math.Round(d.Minutes()), math.Round(d.Hours()); {
	case secs <= 44:
		phrase = "a few seconds"
	case secs <= 89:
		phrase = "a minute"
	case mins <= 44:
		phrase = fmt.Sprintf("%d minutes", int(mins))
	case mins <= 89:
		phrase = "an hour"
	case hours <= 21:
		phrase = fmt.Sprintf("%d hours", int(hours))
	default:
		phrase = "a day"
	}

	if future {
		return "in " + phrase
	}

	return phrase + " ago"
}

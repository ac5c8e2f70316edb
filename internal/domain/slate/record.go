package slate

import (
	"fmt"
	"strconv"
	"strings"
)

// Record is a team's win/loss tally.
type Record struct {
	Wins   int
	Losses int
}

// ParseRecord parses a "W-L" summary. Trailing components (ties, OT losses)
// are ignored.
func ParseRecord(summary string) (Record, error) {
	parts := strings.Split(strings.TrimSpace(summary), "-")
	if len(parts) < 2 {
		return Record{}, fmt.Errorf("record %q: expected W-L", summary)
	}
	wins, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Record{}, fmt.Errorf("record %q: wins: %w", summary, err)
	}
	losses, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Record{}, fmt.Errorf("record %q: losses: %w", summary, err)
	}
	if wins < 0 || losses < 0 {
		return Record{}, fmt.Errorf("record %q: negative count", summary)
	}
	return Record{Wins: wins, Losses: losses}, nil
}

// WinRate returns wins/(wins+losses); ok is false when no games were played.
func (r Record) WinRate() (float64, bool) {
	total := r.Wins + r.Losses
	if total == 0 {
		return 0, false
	}
	return float64(r.Wins) / float64(total), true
}

func (r Record) String() string {
	return fmt.Sprintf("%d-%d", r.Wins, r.Losses)
}

package scoring

import "fmt"

// InterestLevel is the dashboard label for a score.
type InterestLevel struct {
	Label  string `json:"label"`
	Class  string `json:"class"`
	Rating string `json:"rating"`
}

// Interest buckets a wire score. Negative scores (the sentinel) are Unknown.
func Interest(score float64) InterestLevel {
	rating := "?"
	if score >= 0 {
		rating = fmt.Sprintf("%.0f", 100*score)
	}
	switch {
	case score >= 0.8:
		return InterestLevel{Label: "Must Watch", Class: "must-watch", Rating: rating}
	case score >= 0.6:
		return InterestLevel{Label: "High Interest", Class: "high-interest", Rating: rating}
	case score >= 0.4:
		return InterestLevel{Label: "Decent", Class: "decent", Rating: rating}
	case score >= 0:
		return InterestLevel{Label: "Low Interest", Class: "low-interest", Rating: rating}
	default:
		return InterestLevel{Label: "Unknown", Class: "unknown-interest", Rating: rating}
	}
}

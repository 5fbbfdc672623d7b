package report

// Tier is a coarse visual band for a score.
type Tier int

const (
	Low Tier = iota
	Medium
	High
)

func (t Tier) String() string {
	switch t {
	case High:
		return "high"
	case Medium:
		return "medium"
	default:
		return "low"
	}
}

// Tiers holds the score cutoffs for the High and Medium bands.
type Tiers struct {
	High   int
	Medium int
}

// DefaultTiers returns the standard cutoffs: 80 and 50.
func DefaultTiers() Tiers {
	return Tiers{High: 80, Medium: 50}
}

// Of returns the tier of score.
func (t Tiers) Of(score int) Tier {
	switch {
	case score >= t.High:
		return High
	case score >= t.Medium:
		return Medium
	default:
		return Low
	}
}

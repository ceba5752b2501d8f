package ticket

import (
	"math"
	"slices"
	"strings"
)

// MemberStats is one member's billed totals.
type MemberStats struct {
	Member string  `json:"member"`
	Hours  float64 `json:"hours"`
	Amount float64 `json:"amount"`
}

// Leaderboard totals billable hours and amounts per member, most hours first.
func Leaderboard(entries []TimeEntry) []MemberStats {
	totals := make(map[string]*MemberStats)
	for _, e := range entries {
		if !e.IsBillable() {
			continue
		}
		member := e.Member
		if member == "" {
			member = "Unknown"
		}
		s, ok := totals[member]
		if !ok {
			s = &MemberStats{Member: member}
			totals[member] = s
		}
		s.Hours += e.InvoiceHours
		s.Amount += e.InvoiceAmount
	}

	out := make([]MemberStats, 0, len(totals))
	for _, s := range totals {
		out = append(out, MemberStats{
			Member: s.Member,
			Hours:  round2(s.Hours),
			Amount: round2(s.Amount),
		})
	}
	slices.SortFunc(out, func(a, b MemberStats) int {
		switch {
		case a.Hours > b.Hours:
			return -1
		case a.Hours < b.Hours:
			return 1
		default:
			return strings.Compare(a.Member, b.Member)
		}
	})
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

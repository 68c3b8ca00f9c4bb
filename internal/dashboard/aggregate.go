package dashboard

import (
	"math"
	"sort"
	"time"
)

// PercentChange returns the month-over-month change between two cumulative
// totals, rounded to the nearest integer percent. A zero prior total yields 0
// rather than a division error, so a brand-new tenant reads "no change"
// instead of blowing up.
func PercentChange(current, prior float64) int {
	if prior == 0 {
		return 0
	}
	return int(math.Round((current - prior) / prior * 100))
}

// BuildOverview computes the headline numbers from the three row sets.
// Each change percentage compares the count (or sum) over all rows against
// the same figure restricted to rows created before the one-month cutoff.
func BuildOverview(profiles []ProfileRow, clients []ClientRow, deposits []DepositRow, now time.Time) Overview {
	cutoff := now.AddDate(0, -1, 0)

	var active, activePrior int
	for _, p := range profiles {
		if !p.IsActive {
			continue
		}
		active++
		if p.CreatedAt.Before(cutoff) {
			activePrior++
		}
	}

	var totalClients, clientsPrior, late int
	for _, c := range clients {
		totalClients++
		if c.CreatedAt.Before(cutoff) {
			clientsPrior++
		}
		if c.Status == "late" {
			late++
		}
	}

	var invested, investedPrior float64
	for _, d := range deposits {
		invested += d.Amount
		if d.CreatedAt.Before(cutoff) {
			investedPrior += d.Amount
		}
	}

	return Overview{
		ActiveEmployees:   active,
		EmployeesChange:   PercentChange(float64(active), float64(activePrior)),
		TotalClients:      totalClients,
		ClientsChange:     PercentChange(float64(totalClients), float64(clientsPrior)),
		TotalInvestments:  invested,
		InvestmentsChange: PercentChange(invested, investedPrior),
		LateClients:       late,
	}
}

// RankTop groups investment rows by employee and returns the n largest
// totals, descending. Rows without an assigned employee are skipped. Equal
// totals break ties by employee id ascending so the board is deterministic.
func RankTop(rows []InvestmentRow, n int) []EmployeeRank {
	totals := make(map[int64]float64)
	for _, r := range rows {
		if r.AssignedTo == nil {
			continue
		}
		totals[*r.AssignedTo] += r.Amount
	}

	ranks := make([]EmployeeRank, 0, len(totals))
	for id, total := range totals {
		ranks = append(ranks, EmployeeRank{EmployeeID: id, Total: total})
	}
	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].Total != ranks[j].Total {
			return ranks[i].Total > ranks[j].Total
		}
		return ranks[i].EmployeeID < ranks[j].EmployeeID
	})

	if n > 0 && len(ranks) > n {
		ranks = ranks[:n]
	}
	return ranks
}

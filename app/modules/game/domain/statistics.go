package gamedomain

// TeamStatistics summarises one team's rounds.
type TeamStatistics struct {
	Contracts            int            `json:"contracts"`
	ContractsPercentage  float64        `json:"contracts_percentage"`
	SuccessRate          float64        `json:"success_rate"`
	AveragePoints        float64        `json:"average_points"`
	Belotes              int            `json:"belotes"`
	Coinches             int            `json:"coinches"`
	ContractDistribution map[string]int `json:"contract_distribution"`
}

// Statistics summarises a whole game.
type Statistics struct {
	TotalRounds int               `json:"total_rounds"`
	Teams       [2]TeamStatistics `json:"teams"`
	LeadChanges int               `json:"lead_changes"`
}

// ComputeStatistics derives the game summary from the ledger.
func ComputeStatistics(l Ledger) Statistics {
	stats := Statistics{TotalRounds: l.Len()}
	for i := range stats.Teams {
		stats.Teams[i].ContractDistribution = map[string]int{}
	}
	if l.Len() == 0 {
		return stats
	}

	var (
		successes [2]int
		points    [2]int
	)
	for _, round := range l.rounds {
		for i, row := range round.Teams {
			t := &stats.Teams[i]
			points[i] += row.Points
			if row.Contract.Declared() {
				t.Contracts++
				t.ContractDistribution[row.Contract.String()]++
				if row.Fulfilled {
					successes[i]++
				}
			}
			if row.Announcement != AnnouncementNone {
				t.Belotes++
			}
			if row.Remark.Challenged() {
				t.Coinches++
			}
		}
	}

	rounds := float64(l.Len())
	for i := range stats.Teams {
		t := &stats.Teams[i]
		t.ContractsPercentage = float64(t.Contracts) / rounds * 100
		t.SuccessRate = float64(successes[i]) / float64(max(t.Contracts, 1)) * 100
		t.AveragePoints = float64(points[i]) / rounds
	}
	stats.LeadChanges = countLeadChanges(l.rounds)
	return stats
}

// countLeadChanges counts how often the leading team changed. Ties neither
// count as a change nor reset the current leader.
func countLeadChanges(rounds []Round) int {
	changes := 0
	leader := -1
	for _, round := range rounds {
		a, b := round.Teams[0].Total, round.Teams[1].Total
		current := -1
		switch {
		case a > b:
			current = 0
		case b > a:
			current = 1
		}
		if current == -1 {
			continue
		}
		if leader != -1 && current != leader {
			changes++
		}
		leader = current
	}
	return changes
}

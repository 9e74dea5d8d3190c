// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"cmp"
	"slices"

	"github.com/danielhkuo/quickly-tally/models"
)

// Participation summarizes how each option was ranked across ballots. It is
// independent of RunIRV and has no bearing on the winner. Voters are counted
// the way RunIRV counts them.
func Participation(poll models.Poll, ballots []models.Ballot) models.ParticipationStats {
	idx := poll.OptionIndex()
	histograms := make([]map[int]int, len(poll.Options))
	rankSums := make([]int, len(poll.Options))
	totals := make([]int, len(poll.Options))
	for i := range histograms {
		histograms[i] = make(map[int]int)
	}

	totalVoters := 0
	for _, b := range ballots {
		if !ranksPollOption(b, idx) {
			continue
		}
		totalVoters++
		for _, c := range b.Choices {
			i, ok := idx[c.OptionID]
			if !ok {
				continue
			}
			histograms[i][c.Rank]++
			rankSums[i] += c.Rank
			totals[i]++
		}
	}

	stats := models.ParticipationStats{
		TotalVoters: totalVoters,
		Options:     make([]models.OptionParticipation, len(poll.Options)),
	}
	for i, opt := range poll.Options {
		dist := make([]models.RankCount, 0, len(histograms[i]))
		for rank, count := range histograms[i] {
			dist = append(dist, models.RankCount{Rank: rank, Count: count})
		}
		slices.SortFunc(dist, func(a, b models.RankCount) int {
			return cmp.Compare(a.Rank, b.Rank)
		})

		p := models.OptionParticipation{
			OptionID:            opt.ID,
			TotalRankings:       totals[i],
			RankDistribution:    dist,
			InclusionPercentage: percentage(totals[i], totalVoters),
		}
		if totals[i] > 0 {
			p.AverageRank = float64(rankSums[i]) / float64(totals[i])
		}
		stats.Options[i] = p
	}

	return stats
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"cmp"
	"slices"

	"github.com/danielhkuo/quickly-tally/models"
)

// BuildBallots groups ranked votes into one ballot per voter, in order of each
// voter's first vote. Non-rank payloads and votes for options outside the poll
// are skipped. A ballot holding a rank below 1, a repeated rank, or the same
// option twice is dropped whole and its voter ID returned in dropped.
func BuildBallots(poll models.Poll, votes []models.Vote) (ballots []models.Ballot, dropped []string) {
	idx := poll.OptionIndex()

	type draft struct {
		choices   []models.RankedChoice
		malformed bool
	}
	var order []string
	drafts := make(map[string]*draft)

	for _, v := range votes {
		rc, ok := v.Payload.(models.RankChoice)
		if !ok {
			continue
		}
		if _, known := idx[v.OptionID]; !known {
			continue
		}

		d, seen := drafts[v.VoterID]
		if !seen {
			d = &draft{}
			drafts[v.VoterID] = d
			order = append(order, v.VoterID)
		}
		if rc.Rank < 1 {
			d.malformed = true
			continue
		}
		d.choices = append(d.choices, models.RankedChoice{OptionID: v.OptionID, Rank: rc.Rank})
	}

	for _, voterID := range order {
		d := drafts[voterID]
		if d.malformed || hasDuplicates(d.choices) {
			dropped = append(dropped, voterID)
			continue
		}
		slices.SortFunc(d.choices, func(a, b models.RankedChoice) int {
			return cmp.Compare(a.Rank, b.Rank)
		})
		ballots = append(ballots, models.Ballot{VoterID: voterID, Choices: d.choices})
	}

	return ballots, dropped
}

// hasDuplicates reports a repeated rank or a repeated option within one ballot
func hasDuplicates(choices []models.RankedChoice) bool {
	ranks := make(map[int]struct{}, len(choices))
	options := make(map[string]struct{}, len(choices))
	for _, c := range choices {
		if _, dup := ranks[c.Rank]; dup {
			return true
		}
		if _, dup := options[c.OptionID]; dup {
			return true
		}
		ranks[c.Rank] = struct{}{}
		options[c.OptionID] = struct{}{}
	}
	return false
}

// MajorityThreshold returns the vote count needed to win outright.
func MajorityThreshold(totalVoters int) int {
	return totalVoters/2 + 1
}

// RunIRV runs instant-runoff over the given ballots.
//
// Each round counts every ballot toward its highest-ranked option that is
// still active. A ballot with no active option left is exhausted. Ballots that
// rank no option of the poll are not voters and are left out entirely. The
// majority threshold is fixed from the round-one voter count and never
// recomputed from the continuing total.
//
// An option at or above the threshold wins. Otherwise, if only one option is
// active it wins as the last remaining option; if not, the option with the
// fewest votes is eliminated. When several options tie for fewest, the one
// listed earliest in the poll is eliminated and the tied set is recorded on
// the round.
//
// Every non-final round eliminates exactly one option, so the number of rounds
// never exceeds the number of options.
func RunIRV(poll models.Poll, ballots []models.Ballot) models.IRVResult {
	// Only ballots naming at least one poll option count as voters
	idx := poll.OptionIndex()
	counted := make([]models.Ballot, 0, len(ballots))
	for _, b := range ballots {
		if ranksPollOption(b, idx) {
			counted = append(counted, b)
		}
	}
	totalVoters := len(counted)

	result := models.IRVResult{
		TotalVoters:       totalVoters,
		MajorityThreshold: MajorityThreshold(totalVoters),
		Rounds:            []models.Round{},
		FinalPercentages:  make(map[string]float64, len(poll.Options)),
		FinalVotes:        make(map[string]int, len(poll.Options)),
		EliminatedRound:   make(map[string]int),
	}
	for _, opt := range poll.Options {
		result.FinalPercentages[opt.ID] = 0
		result.FinalVotes[opt.ID] = 0
	}

	if totalVoters == 0 {
		return result
	}

	active := make([]string, 0, len(poll.Options))
	isActive := make(map[string]bool, len(poll.Options))
	for _, opt := range poll.Options {
		if !isActive[opt.ID] {
			active = append(active, opt.ID)
			isActive[opt.ID] = true
		}
	}

	for number := 1; number <= len(poll.Options) && len(active) > 0; number++ {
		round := countRound(number, active, isActive, counted, totalVoters)
		for _, id := range active {
			result.FinalVotes[id] = round.VoteCounts[id]
			result.FinalPercentages[id] = round.Percentages[id]
		}

		if leader, ok := majorityLeader(active, round.VoteCounts, result.MajorityThreshold); ok {
			result.Rounds = append(result.Rounds, round)
			result.Winner = &leader
			result.DecidedBy = models.DecidedByMajority
			break
		}

		if len(active) == 1 {
			last := active[0]
			result.Rounds = append(result.Rounds, round)
			result.Winner = &last
			result.DecidedBy = models.DecidedByLastRemaining
			break
		}

		tied := lowest(active, round.VoteCounts)
		out := tied[0]
		if len(tied) > 1 {
			round.TiedForLast = tied
		}
		round.Eliminated = &out
		result.EliminatedRound[out] = number
		result.Rounds = append(result.Rounds, round)

		isActive[out] = false
		active = slices.DeleteFunc(active, func(id string) bool { return id == out })
	}

	return result
}

// ranksPollOption reports whether any choice on b is an option of the poll
func ranksPollOption(b models.Ballot, idx map[string]int) bool {
	for _, c := range b.Choices {
		if _, ok := idx[c.OptionID]; ok {
			return true
		}
	}
	return false
}

// countRound transfers each ballot to its top active choice and tallies
func countRound(number int, active []string, isActive map[string]bool, ballots []models.Ballot, totalVoters int) models.Round {
	round := models.Round{
		Number:      number,
		VoteCounts:  make(map[string]int, len(active)),
		Percentages: make(map[string]float64, len(active)),
	}
	for _, id := range active {
		round.VoteCounts[id] = 0
	}

	for _, b := range ballots {
		if id, ok := topChoice(b, isActive); ok {
			round.VoteCounts[id]++
		} else {
			round.Exhausted++
		}
	}

	for _, id := range active {
		round.Percentages[id] = percentage(round.VoteCounts[id], totalVoters)
	}
	return round
}

// topChoice returns the highest-ranked option of b that is still active
func topChoice(b models.Ballot, isActive map[string]bool) (string, bool) {
	for _, c := range b.Choices {
		if isActive[c.OptionID] {
			return c.OptionID, true
		}
	}
	return "", false
}

// majorityLeader returns the active option at or above threshold, if any.
// At most one option can reach a strict majority.
func majorityLeader(active []string, counts map[string]int, threshold int) (string, bool) {
	for _, id := range active {
		if counts[id] >= threshold {
			return id, true
		}
	}
	return "", false
}

// lowest returns the options sharing the minimum count, in poll order
func lowest(active []string, counts map[string]int) []string {
	minCount := counts[active[0]]
	for _, id := range active[1:] {
		minCount = min(minCount, counts[id])
	}

	var tied []string
	for _, id := range active {
		if counts[id] == minCount {
			tied = append(tied, id)
		}
	}
	return tied
}

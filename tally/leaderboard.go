// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"cmp"
	"slices"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/quickly-tally/models"
)

// entry groups, in display order
const (
	groupWinner = iota
	groupRunnerUp
	groupSurvivor // active at the end with no votes
	groupEliminated
)

type ranked struct {
	entry models.LeaderboardEntry
	group int
	index int // position in poll.Options
	// tally methods only
	primary   float64
	secondary float64
}

// Leaderboard orders every poll option for display from an IRV result.
//
// Ordering (lexicographic):
//  1. The winner
//  2. Options still active at the end with votes, by votes descending
//  3. Options still active at the end without votes
//  4. Eliminated options, by elimination round descending, then votes descending
//
// Remaining ties keep poll option order.
func Leaderboard(poll models.Poll, irv models.IRVResult) []models.LeaderboardEntry {
	rows := make([]ranked, 0, len(poll.Options))
	for i, opt := range poll.Options {
		row := ranked{
			index: i,
			entry: models.LeaderboardEntry{
				Option:     opt,
				Votes:      irv.FinalVotes[opt.ID],
				Percentage: irv.FinalPercentages[opt.ID],
			},
		}

		round, eliminated := irv.EliminatedRound[opt.ID]
		switch {
		case irv.Winner != nil && *irv.Winner == opt.ID:
			row.group = groupWinner
			row.entry.Status = models.StatusWinner
		case eliminated:
			row.group = groupEliminated
			row.entry.Status = models.StatusEliminated
			row.entry.EliminatedRound = &round
		case row.entry.Votes > 0:
			row.group = groupRunnerUp
			row.entry.Status = models.StatusRunnerUp
		default:
			row.group = groupSurvivor
			row.entry.Status = models.StatusEliminated
		}
		rows = append(rows, row)
	}

	slices.SortFunc(rows, func(a, b ranked) int {
		if c := cmp.Compare(a.group, b.group); c != 0 {
			return c
		}
		if a.group == groupEliminated {
			if c := cmp.Compare(*b.entry.EliminatedRound, *a.entry.EliminatedRound); c != 0 {
				return c
			}
		}
		if c := cmp.Compare(b.entry.Votes, a.entry.Votes); c != 0 {
			return c
		}
		return cmp.Compare(a.index, b.index)
	})

	return positioned(rows)
}

// LeaderboardFromTally orders every poll option for display from a binary,
// approval or star tally.
//
// Ranking metric per method:
//   - binary: yes votes, then maybe votes
//   - approval: approvals
//   - star: average rating, then number of ratings
//
// An option that is strictly ahead of all others with a nonzero metric is the
// winner. Other options that received votes are runner-ups; options without
// votes are eliminated. Ties keep poll option order.
func LeaderboardFromTally(poll models.Poll, result models.TallyResult) []models.LeaderboardEntry {
	rows := make([]ranked, 0, len(poll.Options))
	for i, opt := range poll.Options {
		row := ranked{
			index: i,
			group: groupRunnerUp,
			entry: models.LeaderboardEntry{Option: opt, Status: models.StatusRunnerUp},
		}
		if !scoreRow(&row, result, i) {
			row.group = groupEliminated
			row.entry.Status = models.StatusEliminated
		}
		rows = append(rows, row)
	}

	slices.SortFunc(rows, func(a, b ranked) int {
		if c := cmp.Compare(a.group, b.group); c != 0 {
			return c
		}
		if c := cmp.Compare(b.primary, a.primary); c != 0 {
			return c
		}
		if c := cmp.Compare(b.secondary, a.secondary); c != 0 {
			return c
		}
		return cmp.Compare(a.index, b.index)
	})

	if len(rows) > 0 && rows[0].group == groupRunnerUp && rows[0].primary > 0 {
		unique := len(rows) == 1 || rows[1].group != groupRunnerUp ||
			rows[0].primary != rows[1].primary || rows[0].secondary != rows[1].secondary
		if unique {
			rows[0].group = groupWinner
			rows[0].entry.Status = models.StatusWinner
		}
	}

	return positioned(rows)
}

// scoreRow fills the metric for option i and reports whether it received votes.
// Rows are matched by position first and by option ID as a fallback.
func scoreRow(row *ranked, result models.TallyResult, i int) bool {
	id := row.entry.Option.ID
	switch result.Method {
	case models.MethodBinary:
		t, ok := findRow(result.Binary, i, id, func(t models.BinaryTally) string { return t.OptionID })
		if !ok {
			return false
		}
		row.primary, row.secondary = float64(t.Yes), float64(t.Maybe)
		row.entry.Votes = t.Yes
		row.entry.Percentage = t.YesPercentage
		return t.Total > 0
	case models.MethodApproval:
		t, ok := findRow(result.Approval, i, id, func(t models.ApprovalTally) string { return t.OptionID })
		if !ok {
			return false
		}
		row.primary = float64(t.ApprovalCount)
		row.entry.Votes = t.ApprovalCount
		row.entry.Percentage = t.ApprovalPercentage
		return t.ApprovalCount > 0
	case models.MethodStar:
		t, ok := findRow(result.Star, i, id, func(t models.StarTally) string { return t.OptionID })
		if !ok {
			return false
		}
		row.primary, row.secondary = t.AverageRating, float64(t.RatingCount)
		row.entry.Votes = t.RatingCount
		row.entry.Percentage = t.AverageRating / models.MaxRating * 100
		return t.RatingCount > 0
	}
	return false
}

func findRow[T any](rows []T, i int, id string, key func(T) string) (T, bool) {
	if i < len(rows) && key(rows[i]) == id {
		return rows[i], true
	}
	for _, r := range rows {
		if key(r) == id {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// positioned assigns 1-indexed positions in sorted order
func positioned(rows []ranked) []models.LeaderboardEntry {
	entries := make([]models.LeaderboardEntry, len(rows))
	for i, row := range rows {
		entries[i] = row.entry
		entries[i].Position = i + 1
		entries[i].Place = humanize.Ordinal(i + 1)
	}
	return entries
}

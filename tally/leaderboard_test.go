// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-tally/models"
)

func TestLeaderboard_FromIRV(t *testing.T) {
	poll := newPoll(models.MethodRanked, "A", "B", "C")
	var s voteSeq
	var votes []models.Vote
	votes = append(votes, s.repeatRanking("ab", 5, "A", "B")...)
	votes = append(votes, s.repeatRanking("ba", 3, "B", "A")...)
	votes = append(votes, s.repeatRanking("ca", 2, "C", "A")...)

	board := Leaderboard(poll, RunIRV(poll, ballotsFrom(poll, votes)))

	require.Len(t, board, 3)
	assert.Equal(t, []string{"A", "B", "C"}, entryIDs(board))

	assert.Equal(t, models.StatusWinner, board[0].Status)
	assert.Equal(t, 7, board[0].Votes)
	assert.InDelta(t, 70.0, board[0].Percentage, 1e-9)
	assert.Equal(t, 1, board[0].Position)
	assert.Equal(t, "1st", board[0].Place)
	assert.Nil(t, board[0].EliminatedRound)

	assert.Equal(t, models.StatusRunnerUp, board[1].Status)
	assert.Equal(t, 3, board[1].Votes)
	assert.Equal(t, 2, board[1].Position)
	assert.Equal(t, "2nd", board[1].Place)

	assert.Equal(t, models.StatusEliminated, board[2].Status)
	assert.Equal(t, 2, board[2].Votes)
	require.NotNil(t, board[2].EliminatedRound)
	assert.Equal(t, 1, *board[2].EliminatedRound)
	assert.Equal(t, "3rd", board[2].Place)
}

func TestLeaderboard_LaterEliminationRanksHigher(t *testing.T) {
	poll := newPoll(models.MethodRanked, "W", "D", "E", "F")
	var s voteSeq
	var votes []models.Vote
	votes = append(votes, s.repeatRanking("w", 4, "W")...)
	votes = append(votes, s.repeatRanking("d", 3, "D")...)
	votes = append(votes, s.repeatRanking("e", 2, "E", "D")...)
	votes = append(votes, s.repeatRanking("f", 1, "F", "E")...)

	result := RunIRV(poll, ballotsFrom(poll, votes))
	board := Leaderboard(poll, result)

	// Round 1: W4 D3 E2 F1 -> F out, transfers to E
	// Round 2: W4 D3 E3 -> tie D/E, D listed first -> D out
	// Round 3: W4 E3 -> majority is 6, E out
	// Round 4: W4 -> last remaining
	require.Len(t, result.Rounds, 4)
	assert.Equal(t, models.DecidedByLastRemaining, result.DecidedBy)
	assert.Equal(t, []string{"W", "E", "D", "F"}, entryIDs(board))
	assert.Equal(t, models.StatusWinner, board[0].Status)
	for _, e := range board[1:] {
		assert.Equal(t, models.StatusEliminated, e.Status)
		require.NotNil(t, e.EliminatedRound)
	}
	assert.Equal(t, 3, *board[1].EliminatedRound)
	assert.Equal(t, 3, board[1].Votes)
	assert.Equal(t, 2, *board[2].EliminatedRound)
	assert.Equal(t, 1, *board[3].EliminatedRound)
	for i, e := range board {
		assert.Equal(t, i+1, e.Position)
	}
}

func TestLeaderboard_ZeroVoteSurvivor(t *testing.T) {
	poll := newPoll(models.MethodRanked, "A", "B", "C")
	var s voteSeq
	var votes []models.Vote
	votes = append(votes, s.repeatRanking("a", 6, "A")...)
	votes = append(votes, s.repeatRanking("b", 4, "B")...)

	board := Leaderboard(poll, RunIRV(poll, ballotsFrom(poll, votes)))

	assert.Equal(t, []string{"A", "B", "C"}, entryIDs(board))
	assert.Equal(t, models.StatusWinner, board[0].Status)
	assert.Equal(t, models.StatusRunnerUp, board[1].Status)
	assert.Equal(t, models.StatusEliminated, board[2].Status)
	assert.Nil(t, board[2].EliminatedRound)
	assert.Zero(t, board[2].Votes)
}

func TestLeaderboard_NoVotes(t *testing.T) {
	poll := newPoll(models.MethodRanked, "A", "B")

	board := Leaderboard(poll, RunIRV(poll, nil))

	require.Len(t, board, 2)
	assert.Equal(t, []string{"A", "B"}, entryIDs(board))
	for _, e := range board {
		assert.Equal(t, models.StatusEliminated, e.Status)
		assert.Zero(t, e.Votes)
		assert.Zero(t, e.Percentage)
	}
}

func TestLeaderboardFromTally(t *testing.T) {
	var s voteSeq
	tests := []struct {
		name     string
		method   models.Method
		votes    []models.Vote
		order    []string
		statuses []string
	}{
		{
			name:   "approval unique leader wins",
			method: models.MethodApproval,
			votes: []models.Vote{
				s.approve("u1", "b"), s.approve("u2", "b"), s.approve("u3", "a"),
			},
			order:    []string{"b", "a", "c"},
			statuses: []string{models.StatusWinner, models.StatusRunnerUp, models.StatusEliminated},
		},
		{
			name:   "approval tie at top has no winner",
			method: models.MethodApproval,
			votes: []models.Vote{
				s.approve("u1", "c"), s.approve("u2", "a"),
			},
			order:    []string{"a", "c", "b"},
			statuses: []string{models.StatusRunnerUp, models.StatusRunnerUp, models.StatusEliminated},
		},
		{
			name:   "binary ranks by yes then maybe",
			method: models.MethodBinary,
			votes: []models.Vote{
				s.binary("u1", "a", models.BinaryYes),
				s.binary("u1", "b", models.BinaryYes),
				s.binary("u2", "b", models.BinaryMaybe),
				s.binary("u1", "c", models.BinaryNo),
			},
			order:    []string{"b", "a", "c"},
			statuses: []string{models.StatusWinner, models.StatusRunnerUp, models.StatusRunnerUp},
		},
		{
			name:   "star ranks by average",
			method: models.MethodStar,
			votes: []models.Vote{
				s.star("u1", "a", 3), s.star("u2", "a", 3),
				s.star("u1", "c", 5),
			},
			order:    []string{"c", "a", "b"},
			statuses: []string{models.StatusWinner, models.StatusRunnerUp, models.StatusEliminated},
		},
		{
			name:     "no votes",
			method:   models.MethodStar,
			order:    []string{"a", "b", "c"},
			statuses: []string{models.StatusEliminated, models.StatusEliminated, models.StatusEliminated},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			poll := newPoll(tt.method, "a", "b", "c")
			board := LeaderboardFromTally(poll, Tally(poll, tt.votes))

			assert.Equal(t, tt.order, entryIDs(board))
			for i, e := range board {
				assert.Equal(t, tt.statuses[i], e.Status, "entry %s", e.Option.ID)
				assert.Equal(t, i+1, e.Position)
				assert.Nil(t, e.EliminatedRound)
			}
		})
	}
}

func TestLeaderboardFromTally_Values(t *testing.T) {
	poll := newPoll(models.MethodStar, "a")
	var s voteSeq
	votes := []models.Vote{s.star("u1", "a", 4), s.star("u2", "a", 5)}

	board := LeaderboardFromTally(poll, Tally(poll, votes))

	require.Len(t, board, 1)
	assert.Equal(t, 2, board[0].Votes)
	assert.InDelta(t, 90.0, board[0].Percentage, 1e-9)
	assert.Equal(t, "Option a", board[0].Option.Title)
}

func TestLeaderboard_CompleteForEveryMethod(t *testing.T) {
	var s voteSeq
	votes := []models.Vote{
		s.binary("u1", "a", models.BinaryYes),
		s.approve("u1", "b"),
		s.star("u1", "c", 2),
	}
	votes = append(votes, s.ranking("u2", "c", "a")...)

	methods := []models.Method{
		models.MethodBinary, models.MethodApproval, models.MethodStar, models.MethodRanked,
		models.Method("unknown"),
	}
	for _, m := range methods {
		t.Run(string(m), func(t *testing.T) {
			poll := newPoll(m, "a", "b", "c", "d")
			result := Compute(poll, votes)
			assert.ElementsMatch(t, []string{"a", "b", "c", "d"}, entryIDs(result.Leaderboard))
		})
	}
}

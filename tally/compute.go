// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"

	"github.com/danielhkuo/quickly-tally/models"
)

// Compute produces the full result for one poll from one vote snapshot. The
// poll's method selects RunIRV or Tally; the leaderboard is always built.
// Inputs are never modified.
func Compute(poll models.Poll, votes []models.Vote) models.PollResult {
	result := models.PollResult{
		PollID:     poll.ID,
		Method:     poll.Method,
		InputsHash: InputsHash(votes),
	}

	if poll.Method == models.MethodRanked {
		ballots, dropped := BuildBallots(poll, votes)
		irv := RunIRV(poll, ballots)
		result.IRV = &irv
		result.DroppedBallots = dropped
		result.Leaderboard = Leaderboard(poll, irv)
		return result
	}

	t := Tally(poll, votes)
	result.Tally = &t
	result.Leaderboard = LeaderboardFromTally(poll, t)
	return result
}

// InputsHash fingerprints a vote snapshot by its sorted vote IDs, so two
// results can be checked for having been computed from the same inputs.
func InputsHash(votes []models.Vote) string {
	if len(votes) == 0 {
		return "no-votes"
	}

	ids := make([]string, len(votes))
	for i, v := range votes {
		ids[i] = v.ID
	}
	slices.Sort(ids)

	h := sha256.New()
	for _, id := range ids {
		h.Write([]byte(id))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

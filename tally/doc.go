// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package tally computes poll results from an immutable vote snapshot.

All functions are pure: they read the poll and votes they are given, never
modify them, and keep no state between calls. Concurrent calls are safe.

# Methods

	result := tally.Compute(poll, votes)

Compute dispatches on the poll's voting method:

  - binary, approval, star: Tally, then LeaderboardFromTally
  - ranked: BuildBallots, RunIRV, then Leaderboard

# Instant-Runoff

RunIRV eliminates the lowest option each round and transfers its ballots
to their next active preference until an option reaches
MajorityThreshold (floor(voters/2)+1, fixed at round one) or only one
option remains. Ties for lowest eliminate the option listed earliest in
the poll.

# Invalid Input

Votes with the wrong payload for the poll's method, out-of-range ratings
and votes for unknown options contribute nothing. Ranked ballots with
repeated ranks, repeated options or ranks below 1 are dropped whole. No
input makes a computation fail; the worst case is a zero result with no
winner.

# Participation

	stats := tally.Participation(poll, ballots)

Rank histograms, average rank and inclusion percentage per option, for
display only.
*/
package tally

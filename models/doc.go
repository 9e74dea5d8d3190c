// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the vote records, poll descriptors, and computed
result types shared by the tabulator, storage, and HTTP layers.

# Vote Records

A Vote is an immutable (option, voter, payload) record. The payload is a
closed sum type keyed by voting method:

  - BinaryChoice: yes, maybe or no
  - ApprovalMark: an approval marker
  - StarRating: integer rating between MinRating and MaxRating
  - RankChoice: integer rank, 1 = most preferred

A vote whose payload does not match the poll's method contributes nothing
to that poll's results.

# Result Types

  - TallyResult: binary, approval and star aggregates
  - IRVResult: round-by-round instant-runoff history and winner
  - LeaderboardEntry: ordered, status-tagged row for display
  - ParticipationStats: per-option rank histograms for ranked polls
  - PollResult: the full computation for one vote snapshot

# Constants

Voting methods:

	MethodBinary   = "binary"
	MethodApproval = "approval"
	MethodStar     = "star"
	MethodRanked   = "ranked"

Leaderboard statuses:

	StatusWinner     = "winner"
	StatusRunnerUp   = "runner_up"
	StatusEliminated = "eliminated"
*/
package models

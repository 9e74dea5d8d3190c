// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Tally API.

# Handler Types

ResultsHandler serves read-only views of a poll. It is created with the
Store it reads from:

	resultsHandler := handlers.NewResultsHandler(store)

# Endpoints

	GET /polls/{id}               → GetPoll (poll and options)
	GET /polls/{id}/results       → GetResults (tally or IRV, leaderboard)
	GET /polls/{id}/leaderboard   → GetLeaderboard
	GET /polls/{id}/participation → GetParticipation (ranked polls only)
	GET /polls/{id}/vote-count    → GetVoteCount

Results are never cached. Each request loads a fresh snapshot with
Store.LoadSnapshot and passes it to tally.Compute, so two requests over the
same votes return the same result and the same inputs_hash.

# Errors

An unknown poll returns 404. A participation request for a poll that is not
ranked returns 409. Store failures are logged and returned as 500.
*/
package handlers

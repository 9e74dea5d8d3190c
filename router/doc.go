// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Tally API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(store)

# Endpoints

Health:

	GET /health

Results (public):

	GET /polls/{id}               - Poll info and options
	GET /polls/{id}/results       - Tally or IRV result with leaderboard
	GET /polls/{id}/leaderboard   - Leaderboard only
	GET /polls/{id}/participation - Ranking stats (ranked polls)
	GET /polls/{id}/vote-count    - Active votes and distinct voters

Every route except /health and / is wrapped with middleware.WithLogging.
Polls and votes are written through db.Store directly; the API has no write
routes.
*/
package router

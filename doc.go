// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Tally API server.

Quickly Tally computes poll results on demand. Binary, approval and star polls
are tallied per option; ranked polls are decided by instant-runoff voting
with a round-by-round trace.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=file:tally.db go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..."

Variables may also come from a .env file in the working directory, or from
the file named with -e.

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file or PostgreSQL connection string

Optional settings:

  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - PORT (-p): Server port (default: 3318)

# Architecture

  - tally: Tallying, instant-runoff, leaderboard and participation stats
  - handlers: HTTP request handlers (results)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Poll, vote and result types
  - db: Schema creation and the vote Store
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main

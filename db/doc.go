// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles schema creation and vote snapshot storage.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The same schema runs on postgres (github.com/lib/pq) and sqlite
(modernc.org/sqlite).

# Tables

  - poll: Poll metadata and voting method
  - option: Ordered options per poll
  - vote: Append-only vote records, one payload column each

# Relationships

	poll 1──* option
	poll 1──* vote
	option 1──* vote

All foreign keys use ON DELETE CASCADE.

# Snapshots

	store := db.NewStore(conn, db.DialectPostgres)
	poll, votes, err := store.LoadSnapshot(ctx, pollID)

LoadSnapshot reads the poll, its options and its active votes in one
transaction (repeatable read on postgres). Retracted votes are excluded.
Rows whose payload columns do not hold exactly one value decode to a nil
payload.
*/
package db

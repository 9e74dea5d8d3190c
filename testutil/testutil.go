// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/danielhkuo/quickly-tally/db"
	"github.com/danielhkuo/quickly-tally/models"
)

// TestDBURL is an in-memory SQLite database private to one connection
const TestDBURL = ":memory:"

// SetupTestDB creates a fresh test database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open(db.DialectSQLite, TestDBURL)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// Every connection to :memory: is a separate database
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if _, err := conn.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}
	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// SetupTestStore returns a Store over a fresh test database
func SetupTestStore(t *testing.T) *db.Store {
	t.Helper()
	return db.NewStore(SetupTestDB(t), db.DialectSQLite)
}

// CreateTestPoll creates a poll with one option per title and returns the
// poll ID and option IDs in listing order
func CreateTestPoll(t *testing.T, store *db.Store, method models.Method, optionTitles ...string) (string, []string) {
	t.Helper()
	ctx := context.Background()

	pollID, err := store.CreatePoll(ctx, "Test Poll", "A test poll", method)
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	optionIDs := make([]string, 0, len(optionTitles))
	for _, title := range optionTitles {
		id, err := store.AddOption(ctx, pollID, title, "")
		if err != nil {
			t.Fatalf("Failed to create test option: %v", err)
		}
		optionIDs = append(optionIDs, id)
	}

	return pollID, optionIDs
}

// CastTestVote records one vote and returns its ID
func CastTestVote(t *testing.T, store *db.Store, pollID, optionID, voterID string, payload models.Payload) string {
	t.Helper()

	voteID, err := store.CastVote(context.Background(), pollID, optionID, voterID, payload)
	if err != nil {
		t.Fatalf("Failed to cast test vote: %v", err)
	}
	return voteID
}

// CastTestRanking records a full ranked ballot; optionIDs[0] gets rank 1
func CastTestRanking(t *testing.T, store *db.Store, pollID, voterID string, optionIDs ...string) {
	t.Helper()

	for i, optionID := range optionIDs {
		CastTestVote(t, store, pollID, optionID, voterID, models.RankChoice{Rank: i + 1})
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, headers map[string]string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

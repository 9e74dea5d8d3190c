// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-tally/models"
)

var (
	ErrPollNotFound   = errors.New("poll not found")
	ErrVoteNotFound   = errors.New("vote not found")
	ErrInvalidMethod  = errors.New("invalid voting method")
	ErrMissingPayload = errors.New("vote payload required")
)

// Store reads and writes polls, options and votes.
type Store struct {
	db      *sql.DB
	dialect string
}

func NewStore(db *sql.DB, dialect string) *Store {
	return &Store{db: db, dialect: dialect}
}

// queryer is satisfied by *sql.DB and *sql.Tx
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// LoadSnapshot reads a poll, its options and its active votes inside a single
// transaction, so the tabulator sees one consistent view.
func (s *Store) LoadSnapshot(ctx context.Context, pollID string) (models.Poll, []models.Vote, error) {
	tx, err := s.db.BeginTx(ctx, s.snapshotTxOptions())
	if err != nil {
		return models.Poll{}, nil, fmt.Errorf("failed to begin snapshot: %w", err)
	}
	defer tx.Rollback()

	// Get poll with options
	poll, err := getPoll(ctx, tx, pollID)
	if err != nil {
		return models.Poll{}, nil, err
	}

	// Get active votes
	votes, err := getVotes(ctx, tx, pollID)
	if err != nil {
		return models.Poll{}, nil, fmt.Errorf("failed to get votes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.Poll{}, nil, fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return poll, votes, nil
}

// snapshotTxOptions picks the isolation for LoadSnapshot. SQLite transactions
// are already serializable.
func (s *Store) snapshotTxOptions() *sql.TxOptions {
	if s.dialect == DialectPostgres {
		return &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	}
	return nil
}

// GetPoll returns a poll and its options without votes.
func (s *Store) GetPoll(ctx context.Context, pollID string) (models.Poll, error) {
	return getPoll(ctx, s.db, pollID)
}

// CountVotes returns the number of active votes and distinct voters.
func (s *Store) CountVotes(ctx context.Context, pollID string) (votes, voters int, err error) {
	if _, err := getPoll(ctx, s.db, pollID); err != nil {
		return 0, 0, err
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT voter_id)
		FROM vote
		WHERE poll_id = $1 AND retracted_at IS NULL
	`, pollID).Scan(&votes, &voters)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count votes: %w", err)
	}
	return votes, voters, nil
}

// CreatePoll inserts a poll and returns its ID.
func (s *Store) CreatePoll(ctx context.Context, title, description string, method models.Method) (string, error) {
	if !method.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidMethod, method)
	}

	pollID := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO poll (id, title, description, method, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, pollID, title, description, string(method), time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("failed to insert poll: %w", err)
	}
	return pollID, nil
}

// AddOption appends an option to the end of a poll's option list.
func (s *Store) AddOption(ctx context.Context, pollID, title, description string) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Verify poll exists
	var exists bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM poll WHERE id = $1)
	`, pollID).Scan(&exists)
	if err != nil {
		return "", fmt.Errorf("failed to query poll: %w", err)
	}
	if !exists {
		return "", ErrPollNotFound
	}

	// New options go last
	var position int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM option WHERE poll_id = $1
	`, pollID).Scan(&position)
	if err != nil {
		return "", fmt.Errorf("failed to count options: %w", err)
	}

	optionID := uuid.NewString()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO option (id, poll_id, title, description, position)
		VALUES ($1, $2, $3, $4, $5)
	`, optionID, pollID, title, description, position)
	if err != nil {
		return "", fmt.Errorf("failed to insert option: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit option: %w", err)
	}
	return optionID, nil
}

// CastVote appends a vote. It does not check the payload against the poll's
// method or enforce one vote per voter; the tabulator tolerates both.
func (s *Store) CastVote(ctx context.Context, pollID, optionID, voterID string, payload models.Payload) (string, error) {
	if payload == nil {
		return "", ErrMissingPayload
	}
	choice, approved, rating, rank := encodePayload(payload)

	voteID := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO vote (id, poll_id, option_id, voter_id, choice, approved, rating, rank_position, cast_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, voteID, pollID, optionID, voterID, choice, approved, rating, rank, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("failed to insert vote: %w", err)
	}
	return voteID, nil
}

// RetractVote soft-deletes a vote. Retracting twice is a no-op.
func (s *Store) RetractVote(ctx context.Context, voteID string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE vote SET retracted_at = $1
		WHERE id = $2 AND retracted_at IS NULL
	`, time.Now().UTC(), voteID)
	if err != nil {
		return fmt.Errorf("failed to retract vote: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to retract vote: %w", err)
	}
	// Nothing updated: already retracted or unknown
	if n == 0 {
		var exists bool
		err := s.db.QueryRowContext(ctx, `
			SELECT EXISTS(SELECT 1 FROM vote WHERE id = $1)
		`, voteID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to query vote: %w", err)
		}
		if !exists {
			return ErrVoteNotFound
		}
	}
	return nil
}

// getPoll retrieves a poll with options in position order
func getPoll(ctx context.Context, q queryer, pollID string) (models.Poll, error) {
	var poll models.Poll
	var description sql.NullString
	var method string
	err := q.QueryRowContext(ctx, `
		SELECT id, title, description, method, created_at
		FROM poll
		WHERE id = $1
	`, pollID).Scan(&poll.ID, &poll.Title, &description, &method, &poll.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Poll{}, ErrPollNotFound
	}
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to query poll: %w", err)
	}
	poll.Description = description.String
	poll.Method = models.Method(method)

	// Get options
	rows, err := q.QueryContext(ctx, `
		SELECT id, title, description
		FROM option
		WHERE poll_id = $1
		ORDER BY position, id
	`, pollID)
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to query options: %w", err)
	}
	defer rows.Close()

	poll.Options = []models.Option{}
	for rows.Next() {
		var opt models.Option
		var desc sql.NullString
		if err := rows.Scan(&opt.ID, &opt.Title, &desc); err != nil {
			return models.Poll{}, fmt.Errorf("failed to scan option: %w", err)
		}
		opt.Description = desc.String
		poll.Options = append(poll.Options, opt)
	}
	if err := rows.Err(); err != nil {
		return models.Poll{}, fmt.Errorf("failed to read options: %w", err)
	}

	return poll, nil
}

// getVotes retrieves active votes in cast order
func getVotes(ctx context.Context, q queryer, pollID string) ([]models.Vote, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, poll_id, option_id, voter_id, choice, approved, rating, rank_position, cast_at
		FROM vote
		WHERE poll_id = $1 AND retracted_at IS NULL
		ORDER BY cast_at, id
	`, pollID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	votes := []models.Vote{}
	for rows.Next() {
		var v models.Vote
		var choice sql.NullString
		var approved sql.NullBool
		var rating, rank sql.NullInt64
		if err := rows.Scan(&v.ID, &v.PollID, &v.OptionID, &v.VoterID,
			&choice, &approved, &rating, &rank, &v.CastAt); err != nil {
			return nil, err
		}
		v.Payload = decodePayload(choice, approved, rating, rank)
		votes = append(votes, v)
	}

	return votes, rows.Err()
}

// encodePayload places a payload in its column
func encodePayload(p models.Payload) (choice sql.NullString, approved sql.NullBool, rating, rank sql.NullInt64) {
	switch v := p.(type) {
	case models.BinaryChoice:
		choice = sql.NullString{String: string(v.Value), Valid: true}
	case models.ApprovalMark:
		approved = sql.NullBool{Bool: v.Approved, Valid: true}
	case models.StarRating:
		rating = sql.NullInt64{Int64: int64(v.Rating), Valid: true}
	case models.RankChoice:
		rank = sql.NullInt64{Int64: int64(v.Rank), Valid: true}
	}
	return choice, approved, rating, rank
}

// decodePayload returns the variant for whichever single column is set, or
// nil when none or several are set.
func decodePayload(choice sql.NullString, approved sql.NullBool, rating, rank sql.NullInt64) models.Payload {
	var payload models.Payload
	set := 0
	if choice.Valid {
		payload = models.BinaryChoice{Value: models.BinaryValue(choice.String)}
		set++
	}
	if approved.Valid {
		payload = models.ApprovalMark{Approved: approved.Bool}
		set++
	}
	if rating.Valid {
		payload = models.StarRating{Rating: int(rating.Int64)}
		set++
	}
	if rank.Valid {
		payload = models.RankChoice{Rank: int(rank.Int64)}
		set++
	}
	if set != 1 {
		return nil
	}
	return payload
}

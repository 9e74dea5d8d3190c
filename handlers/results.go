// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/quickly-tally/db"
	"github.com/danielhkuo/quickly-tally/middleware"
	"github.com/danielhkuo/quickly-tally/models"
	"github.com/danielhkuo/quickly-tally/tally"
)

type ResultsHandler struct {
	store *db.Store
}

func NewResultsHandler(store *db.Store) *ResultsHandler {
	return &ResultsHandler{store: store}
}

// GetPoll handles GET /polls/{id}
// Returns poll details and options
func (h *ResultsHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	// Get poll with options
	poll, err := h.store.GetPoll(r.Context(), pollID)
	if err != nil {
		writeStoreError(w, pollID, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, poll)
}

// GetResults handles GET /polls/{id}/results
// Tabulates the current vote snapshot on every request
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	poll, result, votes, ok := h.compute(w, r)
	if !ok {
		return
	}

	response := models.ResultsResponse{
		Poll:       poll,
		Result:     result,
		VoteCount:  votes,
		ComputedAt: time.Now().UTC(),
	}

	middleware.JSONResponse(w, http.StatusOK, response)
}

// GetLeaderboard handles GET /polls/{id}/leaderboard
func (h *ResultsHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	poll, result, _, ok := h.compute(w, r)
	if !ok {
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.LeaderboardResponse{
		PollID:      poll.ID,
		Method:      poll.Method,
		Leaderboard: result.Leaderboard,
	})
}

// GetParticipation handles GET /polls/{id}/participation
// Returns 409 for polls that are not ranked
func (h *ResultsHandler) GetParticipation(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	// Load poll and active votes in one transaction
	poll, votes, err := h.store.LoadSnapshot(r.Context(), pollID)
	if err != nil {
		writeStoreError(w, pollID, err)
		return
	}

	// Only ranked ballots have ranks to summarize
	if poll.Method != models.MethodRanked {
		middleware.ErrorResponse(w, http.StatusConflict, "Participation stats are only available for ranked polls")
		return
	}

	// Use the same ballot set as the runoff
	ballots, dropped := tally.BuildBallots(poll, votes)
	logDropped(poll.ID, dropped)

	middleware.JSONResponse(w, http.StatusOK, models.ParticipationResponse{
		PollID: poll.ID,
		Stats:  tally.Participation(poll, ballots),
	})
}

// GetVoteCount handles GET /polls/{id}/vote-count
func (h *ResultsHandler) GetVoteCount(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	// Count active votes and distinct voters
	votes, voters, err := h.store.CountVotes(r.Context(), pollID)
	if err != nil {
		writeStoreError(w, pollID, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VoteCountResponse{
		VoteCount:  votes,
		VoterCount: voters,
	})
}

// compute loads a snapshot and tabulates it. On failure it has already
// written the error response.
func (h *ResultsHandler) compute(w http.ResponseWriter, r *http.Request) (models.Poll, models.PollResult, int, bool) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return models.Poll{}, models.PollResult{}, 0, false
	}

	// Load poll and active votes in one transaction
	poll, votes, err := h.store.LoadSnapshot(r.Context(), pollID)
	if err != nil {
		writeStoreError(w, pollID, err)
		return models.Poll{}, models.PollResult{}, 0, false
	}

	// Tabulate by the poll's method
	result := tally.Compute(poll, votes)

	// Log computation
	logDropped(poll.ID, result.DroppedBallots)
	slog.Info("computed results",
		"poll_id", poll.ID,
		"method", poll.Method,
		"votes", humanize.Comma(int64(len(votes))),
		"inputs_hash", result.InputsHash,
	)

	return poll, result, len(votes), true
}

// logDropped warns about ranked ballots excluded as malformed
func logDropped(pollID string, dropped []string) {
	if len(dropped) == 0 {
		return
	}
	slog.Warn("dropped malformed ballots",
		"poll_id", pollID,
		"count", len(dropped),
	)
}

// writeStoreError maps store errors to HTTP responses
func writeStoreError(w http.ResponseWriter, pollID string, err error) {
	if errors.Is(err, db.ErrPollNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	slog.Error("failed to load poll", "poll_id", pollID, "error", err)
	middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/quickly-tally/models"
	"github.com/danielhkuo/quickly-tally/testutil"
)

// TestConcurrentResultsReads verifies that simultaneous results requests over
// an unchanged snapshot all produce the same body
func TestConcurrentResultsReads(t *testing.T) {
	store := testutil.SetupTestStore(t)
	handler := NewResultsHandler(store)

	pollID, _ := seedRankedPoll(t, store)

	numReaders := 10
	bodies := make([]models.PollResult, numReaders)
	var wg sync.WaitGroup

	for i := range numReaders {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			w := serve(handler.GetResults, "/polls/"+pollID+"/results", pollID)
			if w.Code != http.StatusOK {
				t.Errorf("Reader %d got status %d", idx, w.Code)
				return
			}

			var resp models.ResultsResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Errorf("Reader %d failed to decode: %v", idx, err)
				return
			}
			bodies[idx] = resp.Result
		}(i)
	}

	wg.Wait()

	want, err := json.Marshal(bodies[0])
	if err != nil {
		t.Fatalf("Failed to marshal result: %v", err)
	}
	for i := 1; i < numReaders; i++ {
		got, _ := json.Marshal(bodies[i])
		if string(got) != string(want) {
			t.Errorf("Reader %d saw a different result:\n%s\nvs\n%s", i, got, want)
		}
	}
}

// TestConcurrentVotesAndReads casts votes while results are being read. Every
// read must be internally consistent and the final read must see every vote.
func TestConcurrentVotesAndReads(t *testing.T) {
	store := testutil.SetupTestStore(t)
	handler := NewResultsHandler(store)

	pollID, opts := testutil.CreateTestPoll(t, store, models.MethodApproval, "A", "B", "C")

	numVoters := 12
	var castCount atomic.Int32
	var wg sync.WaitGroup

	for i := range numVoters {
		wg.Add(1)
		go func(voterIdx int) {
			defer wg.Done()

			voterID := fmt.Sprintf("voter-%02d", voterIdx)
			optionID := opts[voterIdx%len(opts)]
			_, err := store.CastVote(context.Background(), pollID, optionID, voterID, models.ApprovalMark{Approved: true})
			if err != nil {
				t.Errorf("Voter %d failed to cast: %v", voterIdx, err)
				return
			}
			castCount.Add(1)
		}(i)

		wg.Add(1)
		go func() {
			defer wg.Done()

			w := serve(handler.GetResults, "/polls/"+pollID+"/results", pollID)
			if w.Code != http.StatusOK {
				t.Errorf("Read got status %d", w.Code)
				return
			}

			var resp models.ResultsResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Errorf("Failed to decode: %v", err)
				return
			}
			if resp.Result.Tally == nil {
				t.Error("Expected tally in concurrent read")
				return
			}

			approvals := 0
			for _, row := range resp.Result.Tally.Approval {
				approvals += row.ApprovalCount
			}
			if approvals != resp.VoteCount {
				t.Errorf("Snapshot mismatch: %d approvals for %d votes", approvals, resp.VoteCount)
			}
		}()
	}

	wg.Wait()

	if int(castCount.Load()) != numVoters {
		t.Fatalf("Expected %d votes cast, got %d", numVoters, castCount.Load())
	}

	w := serve(handler.GetResults, "/polls/"+pollID+"/results", pollID)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ResultsResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.Result.Tally.TotalVoters != numVoters {
		t.Errorf("Expected %d voters, got %d", numVoters, resp.Result.Tally.TotalVoters)
	}
	for _, row := range resp.Result.Tally.Approval {
		if row.ApprovalCount != numVoters/len(opts) {
			t.Errorf("Expected %d approvals for %s, got %d", numVoters/len(opts), row.OptionID, row.ApprovalCount)
		}
	}
}

// TestParallelPolls computes results for several polls at once on one store
func TestParallelPolls(t *testing.T) {
	store := testutil.SetupTestStore(t)
	handler := NewResultsHandler(store)

	numPolls := 5
	pollIDs := make([]string, numPolls)
	winners := make([]string, numPolls)
	for i := range numPolls {
		pollID, opts := testutil.CreateTestPoll(t, store, models.MethodRanked, "A", "B", "C")
		// Poll i is won outright by option i%3
		favorite := opts[i%len(opts)]
		for v := range 3 {
			testutil.CastTestRanking(t, store, pollID, fmt.Sprintf("p%d-v%d", i, v), favorite)
		}
		pollIDs[i] = pollID
		winners[i] = favorite
	}

	var wg sync.WaitGroup
	for i := range numPolls {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			w := serve(handler.GetLeaderboard, "/polls/"+pollIDs[idx]+"/leaderboard", pollIDs[idx])
			if w.Code != http.StatusOK {
				t.Errorf("Poll %d leaderboard failed: %d", idx, w.Code)
				return
			}

			var resp models.LeaderboardResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Errorf("Poll %d failed to decode: %v", idx, err)
				return
			}
			if len(resp.Leaderboard) == 0 || resp.Leaderboard[0].Option.ID != winners[idx] {
				t.Errorf("Poll %d: expected winner %s, got %+v", idx, winners[idx], resp.Leaderboard)
			}
		}(i)
	}

	wg.Wait()
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"fmt"

	"github.com/danielhkuo/quickly-tally/models"
)

func newPoll(method models.Method, optionIDs ...string) models.Poll {
	poll := models.Poll{ID: "poll-1", Title: "Test Poll", Method: method}
	for _, id := range optionIDs {
		poll.Options = append(poll.Options, models.Option{ID: id, Title: "Option " + id})
	}
	return poll
}

// voteSeq hands out unique vote IDs within a test
type voteSeq struct{ n int }

func (s *voteSeq) vote(voterID, optionID string, payload models.Payload) models.Vote {
	s.n++
	return models.Vote{
		ID:       fmt.Sprintf("v%03d", s.n),
		PollID:   "poll-1",
		OptionID: optionID,
		VoterID:  voterID,
		Payload:  payload,
	}
}

func (s *voteSeq) binary(voterID, optionID string, value models.BinaryValue) models.Vote {
	return s.vote(voterID, optionID, models.BinaryChoice{Value: value})
}

func (s *voteSeq) approve(voterID, optionID string) models.Vote {
	return s.vote(voterID, optionID, models.ApprovalMark{Approved: true})
}

func (s *voteSeq) star(voterID, optionID string, rating int) models.Vote {
	return s.vote(voterID, optionID, models.StarRating{Rating: rating})
}

// ranking emits one rank vote per option, ranks 1..n in argument order
func (s *voteSeq) ranking(voterID string, optionIDs ...string) []models.Vote {
	votes := make([]models.Vote, 0, len(optionIDs))
	for i, id := range optionIDs {
		votes = append(votes, s.vote(voterID, id, models.RankChoice{Rank: i + 1}))
	}
	return votes
}

// repeatRanking emits count voters who all rank optionIDs in the same order
func (s *voteSeq) repeatRanking(prefix string, count int, optionIDs ...string) []models.Vote {
	var votes []models.Vote
	for i := range count {
		votes = append(votes, s.ranking(fmt.Sprintf("%s-%d", prefix, i), optionIDs...)...)
	}
	return votes
}

func ballotsFrom(poll models.Poll, votes []models.Vote) []models.Ballot {
	ballots, _ := BuildBallots(poll, votes)
	return ballots
}

func findEntry(entries []models.LeaderboardEntry, optionID string) *models.LeaderboardEntry {
	for i := range entries {
		if entries[i].Option.ID == optionID {
			return &entries[i]
		}
	}
	return nil
}

func entryIDs(entries []models.LeaderboardEntry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.Option.ID
	}
	return ids
}

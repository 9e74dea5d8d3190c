package models

import "time"

// Method is the voting method configured on a poll.
type Method string

// Voting method constants
const (
	MethodBinary   Method = "binary"
	MethodApproval Method = "approval"
	MethodStar     Method = "star"
	MethodRanked   Method = "ranked"
)

// Valid reports whether m is one of the supported voting methods.
func (m Method) Valid() bool {
	switch m {
	case MethodBinary, MethodApproval, MethodStar, MethodRanked:
		return true
	}
	return false
}

// BinaryValue is the categorical answer of a binary vote.
type BinaryValue string

const (
	BinaryYes   BinaryValue = "yes"
	BinaryMaybe BinaryValue = "maybe"
	BinaryNo    BinaryValue = "no"
)

func (v BinaryValue) Valid() bool {
	return v == BinaryYes || v == BinaryMaybe || v == BinaryNo
}

// Star rating bounds (inclusive)
const (
	MinRating = 1
	MaxRating = 5
)

// Domain types

type Option struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Poll is the descriptor handed to the tabulator. Options are ordered; that
// order is the tie-break order wherever two options compare equal.
type Poll struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Method      Method    `json:"method"`
	Options     []Option  `json:"options"`
	CreatedAt   time.Time `json:"created_at"`
}

// OptionIndex maps option IDs to their position in the poll.
func (p Poll) OptionIndex() map[string]int {
	idx := make(map[string]int, len(p.Options))
	for i, opt := range p.Options {
		idx[opt.ID] = i
	}
	return idx
}

// Payload is the method-specific content of a vote. The set of variants is
// closed: BinaryChoice, ApprovalMark, StarRating and RankChoice.
type Payload interface {
	Method() Method
	isPayload()
}

type BinaryChoice struct {
	Value BinaryValue `json:"value"`
}

type ApprovalMark struct {
	Approved bool `json:"approved"`
}

type StarRating struct {
	Rating int `json:"rating"`
}

// RankChoice places an option on a ranked ballot. Rank 1 is most preferred.
type RankChoice struct {
	Rank int `json:"rank"`
}

func (BinaryChoice) Method() Method { return MethodBinary }
func (ApprovalMark) Method() Method { return MethodApproval }
func (StarRating) Method() Method   { return MethodStar }
func (RankChoice) Method() Method   { return MethodRanked }

func (BinaryChoice) isPayload() {}
func (ApprovalMark) isPayload() {}
func (StarRating) isPayload()   {}
func (RankChoice) isPayload()   {}

// Vote is one voter's immutable mark on one option. A nil Payload means the
// stored record could not be decoded and contributes nothing.
type Vote struct {
	ID       string    `json:"id"`
	PollID   string    `json:"poll_id"`
	OptionID string    `json:"option_id"`
	VoterID  string    `json:"-"` // Never expose in JSON
	Payload  Payload   `json:"-"`
	CastAt   time.Time `json:"cast_at"`
}

type RankedChoice struct {
	OptionID string `json:"option_id"`
	Rank     int    `json:"rank"`
}

// Ballot is one voter's full ranking, sorted by ascending rank.
type Ballot struct {
	VoterID string         `json:"-"`
	Choices []RankedChoice `json:"choices"`
}

// Tally result types

type BinaryTally struct {
	OptionID        string  `json:"option_id"`
	Yes             int     `json:"yes"`
	Maybe           int     `json:"maybe"`
	No              int     `json:"no"`
	Total           int     `json:"total"`
	YesPercentage   float64 `json:"yes_percentage"`
	MaybePercentage float64 `json:"maybe_percentage"`
	NoPercentage    float64 `json:"no_percentage"`
}

type ApprovalTally struct {
	OptionID           string  `json:"option_id"`
	ApprovalCount      int     `json:"approval_count"`
	ApprovalPercentage float64 `json:"approval_percentage"`
}

type RatingCount struct {
	Rating int `json:"rating"`
	Count  int `json:"count"`
}

type StarTally struct {
	OptionID      string        `json:"option_id"`
	RatingCount   int           `json:"rating_count"`
	AverageRating float64       `json:"average_rating"`
	Histogram     []RatingCount `json:"histogram"`
}

// TallyResult holds binary, approval or star aggregates. Exactly one of the
// row slices is populated, matching Method.
type TallyResult struct {
	Method      Method          `json:"method"`
	TotalVoters int             `json:"total_voters"`
	Ignored     int             `json:"ignored_votes"`
	Binary      []BinaryTally   `json:"binary,omitempty"`
	Approval    []ApprovalTally `json:"approval,omitempty"`
	Star        []StarTally     `json:"star,omitempty"`
}

// IRV result types

// IRV decision kinds
const (
	DecidedByMajority      = "majority"
	DecidedByLastRemaining = "last_remaining"
)

// Round is the state of one IRV round after counting and before elimination.
type Round struct {
	Number      int                `json:"round"`
	VoteCounts  map[string]int     `json:"vote_counts"`
	Percentages map[string]float64 `json:"percentages"`
	Exhausted   int                `json:"exhausted"`
	TiedForLast []string           `json:"tied_for_last,omitempty"`
	Eliminated  *string            `json:"eliminated"`
}

type IRVResult struct {
	TotalVoters       int                `json:"total_voters"`
	MajorityThreshold int                `json:"majority_threshold"`
	Rounds            []Round            `json:"rounds"`
	Winner            *string            `json:"winner"`
	DecidedBy         string             `json:"decided_by,omitempty"`
	FinalPercentages  map[string]float64 `json:"final_percentages"`
	FinalVotes        map[string]int     `json:"final_votes"`
	EliminatedRound   map[string]int     `json:"eliminated_round"`
}

// Leaderboard types

// Leaderboard entry status constants
const (
	StatusWinner     = "winner"
	StatusRunnerUp   = "runner_up"
	StatusEliminated = "eliminated"
)

type LeaderboardEntry struct {
	Option          Option  `json:"option"`
	Status          string  `json:"status"`
	Votes           int     `json:"votes"`
	Percentage      float64 `json:"percentage"`
	Position        int     `json:"position"` // 1-indexed display rank
	Place           string  `json:"place"`
	EliminatedRound *int    `json:"eliminated_round"`
}

// Participation types

type RankCount struct {
	Rank  int `json:"rank"`
	Count int `json:"count"`
}

type OptionParticipation struct {
	OptionID            string      `json:"option_id"`
	TotalRankings       int         `json:"total_rankings"`
	RankDistribution    []RankCount `json:"rank_distribution"`
	AverageRank         float64     `json:"average_rank"`
	InclusionPercentage float64     `json:"inclusion_percentage"`
}

type ParticipationStats struct {
	TotalVoters int                   `json:"total_voters"`
	Options     []OptionParticipation `json:"options"`
}

// PollResult is everything computed for one poll from one vote snapshot.
type PollResult struct {
	PollID         string             `json:"poll_id"`
	Method         Method             `json:"method"`
	Tally          *TallyResult       `json:"tally,omitempty"`
	IRV            *IRVResult         `json:"irv,omitempty"`
	Leaderboard    []LeaderboardEntry `json:"leaderboard"`
	DroppedBallots []string           `json:"-"`
	InputsHash     string             `json:"inputs_hash"` // Hash of all vote IDs for verification
}

// Response types

type ResultsResponse struct {
	Poll       Poll       `json:"poll"`
	Result     PollResult `json:"result"`
	VoteCount  int        `json:"vote_count"`
	ComputedAt time.Time  `json:"computed_at"`
}

type LeaderboardResponse struct {
	PollID      string             `json:"poll_id"`
	Method      Method             `json:"method"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

type ParticipationResponse struct {
	PollID string             `json:"poll_id"`
	Stats  ParticipationStats `json:"stats"`
}

type VoteCountResponse struct {
	VoteCount  int `json:"vote_count"`
	VoterCount int `json:"voter_count"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

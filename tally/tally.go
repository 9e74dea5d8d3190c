// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"github.com/danielhkuo/quickly-tally/models"
)

// Tally aggregates a binary, approval or star poll. Any other method yields
// an empty result with every vote counted as ignored.
func Tally(poll models.Poll, votes []models.Vote) models.TallyResult {
	switch poll.Method {
	case models.MethodBinary:
		return Binary(poll, votes)
	case models.MethodApproval:
		return Approval(poll, votes)
	case models.MethodStar:
		return Star(poll, votes)
	default:
		return models.TallyResult{Method: poll.Method, Ignored: len(votes)}
	}
}

// Binary counts yes/maybe/no votes per option. Percentages are relative to
// the option's own vote total.
func Binary(poll models.Poll, votes []models.Vote) models.TallyResult {
	idx := poll.OptionIndex()
	rows := make([]models.BinaryTally, len(poll.Options))
	for i, opt := range poll.Options {
		rows[i].OptionID = opt.ID
	}

	voters := make(map[string]struct{})
	ignored := 0
	for _, v := range votes {
		i, known := idx[v.OptionID]
		choice, ok := v.Payload.(models.BinaryChoice)
		if !known || !ok || !choice.Value.Valid() {
			ignored++
			continue
		}

		switch choice.Value {
		case models.BinaryYes:
			rows[i].Yes++
		case models.BinaryMaybe:
			rows[i].Maybe++
		case models.BinaryNo:
			rows[i].No++
		}
		rows[i].Total++
		voters[v.VoterID] = struct{}{}
	}

	for i := range rows {
		row := &rows[i]
		row.YesPercentage = percentage(row.Yes, row.Total)
		row.MaybePercentage = percentage(row.Maybe, row.Total)
		row.NoPercentage = percentage(row.No, row.Total)
	}

	return models.TallyResult{
		Method:      models.MethodBinary,
		TotalVoters: len(voters),
		Ignored:     ignored,
		Binary:      rows,
	}
}

// Approval counts approvals per option. Percentages use the number of
// distinct voters across the whole poll as the denominator.
func Approval(poll models.Poll, votes []models.Vote) models.TallyResult {
	idx := poll.OptionIndex()
	rows := make([]models.ApprovalTally, len(poll.Options))
	for i, opt := range poll.Options {
		rows[i].OptionID = opt.ID
	}

	voters := make(map[string]struct{})
	ignored := 0
	for _, v := range votes {
		i, known := idx[v.OptionID]
		mark, ok := v.Payload.(models.ApprovalMark)
		if !known || !ok || !mark.Approved {
			ignored++
			continue
		}
		rows[i].ApprovalCount++
		voters[v.VoterID] = struct{}{}
	}

	for i := range rows {
		rows[i].ApprovalPercentage = percentage(rows[i].ApprovalCount, len(voters))
	}

	return models.TallyResult{
		Method:      models.MethodApproval,
		TotalVoters: len(voters),
		Ignored:     ignored,
		Approval:    rows,
	}
}

// Star averages ratings per option and builds a histogram over the full
// MinRating..MaxRating range.
func Star(poll models.Poll, votes []models.Vote) models.TallyResult {
	idx := poll.OptionIndex()
	sums := make([]int, len(poll.Options))
	rows := make([]models.StarTally, len(poll.Options))
	for i, opt := range poll.Options {
		rows[i].OptionID = opt.ID
		rows[i].Histogram = make([]models.RatingCount, 0, models.MaxRating-models.MinRating+1)
		for r := models.MinRating; r <= models.MaxRating; r++ {
			rows[i].Histogram = append(rows[i].Histogram, models.RatingCount{Rating: r})
		}
	}

	voters := make(map[string]struct{})
	ignored := 0
	for _, v := range votes {
		i, known := idx[v.OptionID]
		rating, ok := v.Payload.(models.StarRating)
		if !known || !ok || rating.Rating < models.MinRating || rating.Rating > models.MaxRating {
			ignored++
			continue
		}
		rows[i].RatingCount++
		rows[i].Histogram[rating.Rating-models.MinRating].Count++
		sums[i] += rating.Rating
		voters[v.VoterID] = struct{}{}
	}

	for i := range rows {
		if rows[i].RatingCount > 0 {
			rows[i].AverageRating = float64(sums[i]) / float64(rows[i].RatingCount)
		}
	}

	return models.TallyResult{
		Method:      models.MethodStar,
		TotalVoters: len(voters),
		Ignored:     ignored,
		Star:        rows,
	}
}

// percentage returns n/total as a percentage, or 0 when total is zero
func percentage(n, total int) float64 {
	if total == 0 {
		return 0.0
	}
	return float64(n) / float64(total) * 100
}

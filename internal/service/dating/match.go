package dating

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/oggyb/penzi-exercise/internal/db"
	"github.com/oggyb/penzi-exercise/internal/messages"
)

// genderTerm picks the collective noun for a requester's matches:
// a woman is sent gentlemen, a man is sent ladies.
func genderTerm(requester *db.User) string {
	if requester.Gender == "female" {
		return "gentlemen"
	}
	return "ladies"
}

// matchLine renders one matched profile the way pages are sent:
// name, age and phone number, with the original trailing separator.
func matchLine(name string, age int, phoneNumber string) string {
	return fmt.Sprintf("%s aged %d, %s. ", name, age, phoneNumber)
}

// handleMatchRequest serves match#age#town and match#ageStart-ageEnd#town.
//
// The candidate set is opposite-gender users in the age band and town,
// excluding the requester. An empty set is a normal no-results outcome
// and opens no session. Otherwise one session is opened atomically
// (superseding any previously active one) and the first page is
// rendered inline, with a continuation prompt when more remain.
func (s *Service) handleMatchRequest(ctx context.Context, user *db.User, text string) string {
	parts := strings.Split(text, "#")
	if len(parts) != 3 {
		return messages.Render(messages.MatchInvalidFormat)
	}

	agePart, townPart := parts[1], parts[2]

	var ageStart, ageEnd int
	if start, end, ok := strings.Cut(agePart, "-"); ok {
		var err error
		if ageStart, err = strconv.Atoi(strings.TrimSpace(start)); err != nil {
			return messages.Render(messages.MatchInvalidAgeFormat)
		}
		if ageEnd, err = strconv.Atoi(strings.TrimSpace(end)); err != nil {
			return messages.Render(messages.MatchInvalidAgeFormat)
		}
	} else {
		age, err := strconv.Atoi(strings.TrimSpace(agePart))
		if err != nil {
			return messages.Render(messages.MatchInvalidAgeFormat)
		}
		ageStart, ageEnd = age, age
	}

	town := titleCaser.String(townPart)

	candidates, err := s.userRepo.FindCandidates(ctx, user, ageStart, ageEnd, town)
	if err != nil {
		return s.renderFailure(messages.MatchFailed, "candidate query", err)
	}
	if len(candidates) == 0 {
		return messages.Render(messages.MatchNoResults, town)
	}

	request := db.MatchRequest{
		UserID:        user.ID,
		AgeRangeStart: ageStart,
		AgeRangeEnd:   ageEnd,
		Town:          town,
	}
	if err := s.matchRepo.CreateSession(ctx, &request, candidates); err != nil {
		return s.renderFailure(messages.MatchFailed, "session create", err)
	}

	// the inline first page below counts as served: NEXT continues at
	// position PageSize
	if err := s.matchRepo.AdvanceCursor(ctx, &request); err != nil {
		return s.renderFailure(messages.MatchFailed, "cursor advance", err)
	}

	s.appCtx.Logger.Info("match session opened",
		"user", user.ID, "total", request.TotalMatches, "town", town)

	term := genderTerm(user)
	var b strings.Builder
	b.WriteString(messages.Render(messages.MatchSuccess, len(candidates), term))
	b.WriteString("\n\n")

	firstPage := candidates
	if len(firstPage) > request.PageSize {
		firstPage = firstPage[:request.PageSize]
	}
	for _, match := range firstPage {
		b.WriteString(matchLine(match.Name, match.Age, match.PhoneNumber))
	}

	if remaining := len(candidates) - request.PageSize; remaining > 0 {
		b.WriteString("\n\n")
		b.WriteString(messages.Render(messages.MatchNextPrompt, remaining, term))
	}

	return b.String()
}

// handleNextMatches serves the NEXT continuation against the most
// recent active session.
//
// The cursor advances by the full page size even when the final page is
// short, so it may overshoot the total; that overshoot is exactly what
// makes the following NEXT terminal. A lost cursor race means another
// message already served this page, so nothing is re-sent.
func (s *Service) handleNextMatches(ctx context.Context, user *db.User) string {
	request, err := s.matchRepo.ActiveSession(ctx, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return messages.Render(messages.NextNoActiveRequest)
		}
		return s.renderFailure(messages.NextFailed, "active session lookup", err)
	}

	if !request.HasMoreMatches() {
		return messages.Render(messages.NextNoMoreMatches)
	}

	page, err := s.matchRepo.PageAt(ctx, request.ID, request.CurrentOffset, request.PageSize)
	if err != nil {
		return s.renderFailure(messages.NextFailed, "page fetch", err)
	}
	if len(page) == 0 {
		return messages.Render(messages.NextNoMoreMatches)
	}

	var b strings.Builder
	for _, match := range page {
		b.WriteString(matchLine(match.MatchedUser.Name, match.MatchedUser.Age, match.MatchedUser.PhoneNumber))
	}

	if err := s.matchRepo.AdvanceCursor(ctx, request); err != nil {
		return s.renderFailure(messages.NextFailed, "cursor advance", err)
	}

	if remaining := request.TotalMatches - request.CurrentOffset; remaining > 0 {
		b.WriteString("\n\n")
		b.WriteString(messages.Render(messages.MatchNextPrompt, remaining, genderTerm(user)))
	}

	return b.String()
}

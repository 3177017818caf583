package dating

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/oggyb/penzi-exercise/internal/db"
	"github.com/oggyb/penzi-exercise/internal/messages"
)

// orPlaceholder substitutes the placeholder for detail fields the
// target never filled in.
func orPlaceholder(v string) string {
	if v == "" {
		return "N/A"
	}
	return v
}

// profileText renders a user's core profile plus detail fields through
// the one catalog template, with placeholders for anything missing.
func profileText(outcome messages.Outcome, target *db.User, detail *db.UserDetail) string {
	var education, profession, marital, religion, ethnicity string
	if detail != nil {
		education = detail.EducationLevel
		profession = detail.Profession
		marital = detail.MaritalStatus
		religion = detail.Religion
		ethnicity = detail.Ethnicity
	}
	return messages.Render(outcome,
		target.Name, target.Age, target.County, target.Town,
		orPlaceholder(education), orPlaceholder(profession), orPlaceholder(marital),
		orPlaceholder(religion), orPlaceholder(ethnicity),
		target.PhoneNumber, target.Name,
	)
}

// handleProfileRequest serves a bare 10-digit message: it renders the
// target's profile and queues an interest notification addressed to
// the target, naming the requester. The notification is always
// recorded on a successful lookup; it is the interest signal the
// delivery channel sends out later.
func (s *Service) handleProfileRequest(ctx context.Context, requester *db.User, targetPhone string) string {
	target, err := s.userRepo.GetByPhone(ctx, targetPhone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return messages.Render(messages.ProfileNotFound)
		}
		return s.renderFailure(messages.ProfileFailed, "profile lookup", err)
	}

	detail, err := s.userRepo.GetDetail(ctx, target.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return s.renderFailure(messages.ProfileFailed, "profile detail lookup", err)
	}

	if err := s.notifyInterest(ctx, target, requester); err != nil {
		return s.renderFailure(messages.ProfileFailed, "interest notify", err)
	}

	// view counter is best effort
	if _, err := s.appCtx.RedisCache.IncrProfileViews(ctx, target.ID); err != nil {
		s.appCtx.Logger.Warn("profile view counter failed", "target", target.ID, "err", err)
	}

	return profileText(messages.ProfileDetails, target, detail)
}

// handleDescribeRequest serves describe <phone>: the target's stored
// self description verbatim, with a gender-appropriate reflexive
// pronoun, or the not-yet-provided outcome.
func (s *Service) handleDescribeRequest(ctx context.Context, text string) string {
	parts := strings.Fields(text)
	if len(parts) != 2 {
		return messages.Render(messages.DescribeInvalidFormat)
	}

	target, err := s.userRepo.GetByPhone(ctx, parts[1])
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return messages.Render(messages.DescribeNotFound)
		}
		return s.renderFailure(messages.DescribeFailed, "describe lookup", err)
	}

	detail, err := s.userRepo.GetDetail(ctx, target.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return s.renderFailure(messages.DescribeFailed, "describe detail lookup", err)
	}
	if detail == nil || detail.SelfDescription == "" {
		return messages.Render(messages.DescribeNoDescription, target.Name)
	}

	pronoun := "herself"
	if target.Gender == "male" {
		pronoun = "himself"
	}
	return messages.Render(messages.DescribeSuccess, target.Name, pronoun, detail.SelfDescription)
}

// handleInterestConfirmation serves a YES reply by resolving the most
// recent notification addressed to the user and rendering the
// interested party's full profile. System-originated signals carry no
// resolvable sender and fall back to the no-pending outcome.
func (s *Service) handleInterestConfirmation(ctx context.Context, user *db.User) string {
	notification, err := s.notifRepo.LatestForRecipient(ctx, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return messages.Render(messages.InterestNoNotifications)
		}
		return s.renderFailure(messages.InterestConfirmationFailed, "notification lookup", err)
	}
	if notification.SenderID == 0 {
		return messages.Render(messages.InterestNoNotifications)
	}

	sender, err := s.userRepo.GetByID(ctx, notification.SenderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return messages.Render(messages.InterestNoNotifications)
		}
		return s.renderFailure(messages.InterestConfirmationFailed, "sender lookup", err)
	}

	detail, err := s.userRepo.GetDetail(ctx, sender.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return s.renderFailure(messages.InterestConfirmationFailed, "sender detail lookup", err)
	}

	return profileText(messages.InterestConfirmationSuccess, sender, detail)
}

// notifyInterest queues the interest signal for the target, with the
// fully rendered gendered message stored as the delivery content.
func (s *Service) notifyInterest(ctx context.Context, target, interested *db.User) error {
	noun, subject, object := "woman", "she", "her"
	if interested.Gender == "male" {
		noun, subject, object = "man", "he", "him"
	}

	content := messages.Render(messages.InterestNotification,
		target.Name, noun, interested.Name, interested.PhoneNumber,
		subject, interested.Age, interested.County, object,
	)

	notification := db.Notification{
		SenderID:    interested.ID,
		RecipientID: target.ID,
		PhoneNumber: target.PhoneNumber,
		Content:     content,
	}
	return s.notifRepo.Create(ctx, &notification)
}

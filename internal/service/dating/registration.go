package dating

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/oggyb/penzi-exercise/internal/db"
	"github.com/oggyb/penzi-exercise/internal/messages"
)

var titleCaser = cases.Title(language.English)

// handleRegistration creates a profile from start#name#age#gender#county#town.
//
// Validation order matches the command grammar: field count, numeric
// age, age range, gender enum, then the already-registered check.
// Re-registering an existing phone is an idempotent no-op that names
// the existing profile. Nothing is written unless every check passes.
func (s *Service) handleRegistration(ctx context.Context, phoneNumber, text string) string {
	parts := strings.Split(text, "#")
	if len(parts) != 6 {
		return messages.Render(messages.RegistrationInvalidFormat)
	}

	name, ageStr, gender, county, town := parts[1], parts[2], parts[3], parts[4], parts[5]

	age, err := strconv.Atoi(strings.TrimSpace(ageStr))
	if err != nil {
		return messages.Render(messages.RegistrationInvalidAgeFormat)
	}
	if age < 18 || age > 80 {
		return messages.Render(messages.RegistrationInvalidAge)
	}
	if gender != "male" && gender != "female" {
		return messages.Render(messages.RegistrationInvalidGender)
	}

	existing, err := s.userRepo.GetByPhone(ctx, phoneNumber)
	if err == nil {
		return messages.Render(messages.RegistrationAlreadyExists, existing.Name)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return s.renderFailure(messages.RegistrationFailed, "registration lookup", err)
	}

	user := db.User{
		Name:              titleCaser.String(name),
		PhoneNumber:       phoneNumber,
		Age:               age,
		Gender:            gender,
		County:            titleCaser.String(county),
		Town:              titleCaser.String(town),
		RegistrationStage: db.StageBasic,
	}
	if err := s.userRepo.Create(ctx, &user); err != nil {
		return s.renderFailure(messages.RegistrationFailed, "registration create", err)
	}

	s.appCtx.Logger.Info("user registered", "phone", phoneNumber, "stage", user.RegistrationStage)
	return messages.Render(messages.RegistrationSuccess, user.Name)
}

// handleDetails upserts the details-stage fields from
// details#education#profession#marital#religion#ethnicity and advances
// the stage. Resubmission at any stage overwrites all five fields.
func (s *Service) handleDetails(ctx context.Context, user *db.User, text string) string {
	parts := strings.Split(text, "#")
	if len(parts) != 6 {
		return messages.Render(messages.DetailsInvalidFormat)
	}

	education, profession, marital, religion, ethnicity := parts[1], parts[2], parts[3], parts[4], parts[5]

	switch marital {
	case "single", "married", "divorced":
	default:
		return messages.Render(messages.DetailsInvalidMarital)
	}

	detail := db.UserDetail{
		EducationLevel: titleCaser.String(education),
		Profession:     titleCaser.String(profession),
		MaritalStatus:  marital,
		Religion:       titleCaser.String(religion),
		Ethnicity:      titleCaser.String(ethnicity),
	}
	if err := s.userRepo.UpsertDetail(ctx, user, &detail); err != nil {
		return s.renderFailure(messages.DetailsFailed, "details upsert", err)
	}

	return messages.Render(messages.DetailsPrompt)
}

// handleSelfDescription stores the free text after the MYSELF keyword
// and completes the registration funnel. The payload must be at least
// 10 characters once trimmed; it is stored verbatim.
func (s *Service) handleSelfDescription(ctx context.Context, user *db.User, text string) string {
	description := strings.TrimSpace(strings.TrimPrefix(text, "myself"))
	if len(description) < 10 {
		return messages.Render(messages.SelfDescriptionTooShort)
	}

	if err := s.userRepo.UpsertSelfDescription(ctx, user, description); err != nil {
		return s.renderFailure(messages.SelfDescriptionFailed, "self description upsert", err)
	}

	return messages.Render(messages.SelfDescriptionSuccess)
}

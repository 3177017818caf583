package messages

import "fmt"

// Outcome enumerates every renderable result a command handler can
// produce. The catalog below must cover each one; Render refuses
// outcomes without a template, and the init check makes a missing
// entry fail at startup rather than at send time.
type Outcome string

const (
	// Registration
	RegistrationSuccess          Outcome = "registration_success"
	RegistrationInvalidFormat    Outcome = "registration_invalid_format"
	RegistrationInvalidAge       Outcome = "registration_invalid_age"
	RegistrationInvalidGender    Outcome = "registration_invalid_gender"
	RegistrationAlreadyExists    Outcome = "registration_already_exists"
	RegistrationInvalidAgeFormat Outcome = "registration_invalid_age_format"
	RegistrationFailed           Outcome = "registration_failed"

	// Details stage
	DetailsPrompt         Outcome = "details_prompt"
	DetailsInvalidFormat  Outcome = "details_invalid_format"
	DetailsInvalidMarital Outcome = "details_invalid_marital"
	DetailsFailed         Outcome = "details_failed"

	// Self description stage
	SelfDescriptionSuccess  Outcome = "self_description_success"
	SelfDescriptionTooShort Outcome = "self_description_too_short"
	SelfDescriptionFailed   Outcome = "self_description_failed"

	// Match requests
	MatchSuccess          Outcome = "match_success"
	MatchNoResults        Outcome = "match_no_results"
	MatchInvalidFormat    Outcome = "match_invalid_format"
	MatchInvalidAgeFormat Outcome = "match_invalid_age_format"
	MatchNextPrompt       Outcome = "match_next_prompt"
	MatchFailed           Outcome = "match_failed"

	// NEXT pagination
	NextNoActiveRequest Outcome = "next_no_active_request"
	NextNoMoreMatches   Outcome = "next_no_more_matches"
	NextFailed          Outcome = "next_failed"

	// Profile lookup
	ProfileDetails  Outcome = "profile_details"
	ProfileNotFound Outcome = "profile_not_found"
	ProfileFailed   Outcome = "profile_failed"

	// Describe lookup
	DescribeInvalidFormat Outcome = "describe_invalid_format"
	DescribeNotFound      Outcome = "describe_not_found"
	DescribeNoDescription Outcome = "describe_no_description"
	DescribeSuccess       Outcome = "describe_success"
	DescribeFailed        Outcome = "describe_failed"

	// Interest notifications
	InterestNotification        Outcome = "interest_notification"
	InterestConfirmationSuccess Outcome = "interest_confirmation_success"
	InterestNoNotifications     Outcome = "interest_no_notifications"
	InterestConfirmationFailed  Outcome = "interest_confirmation_failed"
)

// all lists every declared outcome; the init check pairs it against the
// catalog so the two can never drift apart.
var all = []Outcome{
	RegistrationSuccess, RegistrationInvalidFormat, RegistrationInvalidAge,
	RegistrationInvalidGender, RegistrationAlreadyExists, RegistrationInvalidAgeFormat,
	RegistrationFailed,
	DetailsPrompt, DetailsInvalidFormat, DetailsInvalidMarital, DetailsFailed,
	SelfDescriptionSuccess, SelfDescriptionTooShort, SelfDescriptionFailed,
	MatchSuccess, MatchNoResults, MatchInvalidFormat, MatchInvalidAgeFormat,
	MatchNextPrompt, MatchFailed,
	NextNoActiveRequest, NextNoMoreMatches, NextFailed,
	ProfileDetails, ProfileNotFound, ProfileFailed,
	DescribeInvalidFormat, DescribeNotFound, DescribeNoDescription,
	DescribeSuccess, DescribeFailed,
	InterestNotification, InterestConfirmationSuccess, InterestNoNotifications,
	InterestConfirmationFailed,
}

// catalog holds the fixed text template for each outcome. Substitution
// order is documented per entry; callers pass arguments positionally.
var catalog = map[Outcome]string{
	// name
	RegistrationSuccess: "Your profile has been created successfully %s. SMS details#levelOfEducation#profession#maritalStatus#religion#ethnicity to 22141. E.g. details#diploma#driver#single#christian#mijikenda",

	RegistrationInvalidFormat:    "Invalid format. Use: start#name#age#gender#county#town",
	RegistrationInvalidAge:       "Age must be between 18 and 80",
	RegistrationInvalidGender:    "Gender must be 'male' or 'female'",
	RegistrationInvalidAgeFormat: "Invalid age. Please enter a valid number.",
	// existing name
	RegistrationAlreadyExists: "You are already registered as %s. Send match#age#town to find matches.",
	// cause
	RegistrationFailed: "Registration failed: %v",

	DetailsPrompt:         "This is the last stage of registration. SMS a brief description of yourself to 22141 starting with the word MYSELF. E.g., MYSELF chocolate, lovely, sexy etc.",
	DetailsInvalidFormat:  "Invalid format. Use: details#education#profession#marital#religion#ethnicity",
	DetailsInvalidMarital: "Marital status must be 'single', 'married', or 'divorced'",
	// cause
	DetailsFailed: "Details registration failed: %v",

	SelfDescriptionSuccess:  "You are now registered for dating. To search for a MPENZI, SMS match#age#town to 22141 and meet the person of your dreams. E.g., match#23-25#Kisumu",
	SelfDescriptionTooShort: "Please provide a longer description of yourself (at least 10 characters)",
	// cause
	SelfDescriptionFailed: "Self description failed: %v",

	// count, gender term
	MatchSuccess: "We have %d %s who match your choice! We will send you details of 3 of them shortly.To get more details about a person, SMS their number e.g., 0722010203 to 22141",
	// town
	MatchNoResults:        "Sorry, no matches found for your criteria in %s. Try different age range or town.",
	MatchInvalidFormat:    "Invalid format. Use: match#age#town or match#age-range#town",
	MatchInvalidAgeFormat: "Invalid age format. Use numbers only.",
	// remaining, gender term
	MatchNextPrompt: "Send NEXT to 22141 to receive details of the remaining %d %s",
	// cause
	MatchFailed: "Match request failed: %v",

	NextNoActiveRequest: "You have no active match request. Send match#age#town to find matches.",
	NextNoMoreMatches:   "No more matches for your request. Send match#age#town to start a new search.",
	// cause
	NextFailed: "Failed to get more matches: %v",

	// name, age, county, town, education, profession, marital, religion, ethnicity, phone, name
	ProfileDetails:  "%s aged %d, %s County, %s town, %s, %s, %s, %s, %s. Send DESCRIBE %s to get more details about %s.",
	ProfileNotFound: "Profile not found. Please check the phone number.",
	// cause
	ProfileFailed: "Failed to get profile: %v",

	DescribeInvalidFormat: "Invalid format. Use: DESCRIBE phone_number",
	DescribeNotFound:      "Profile not found.",
	// name
	DescribeNoDescription: "%s has not provided a self description yet.",
	// name, reflexive pronoun, description
	DescribeSuccess: "%s describes %s as %s",
	// cause
	DescribeFailed: "Failed to get description: %v",

	// name, gender noun, interested name, phone, subject pronoun, age, county, object pronoun
	InterestNotification: "Hi %s, a %s called %s %s is interested in you and requested your details. %s is aged %d based in %s. Do you want to know more about %s? Send YES to 22141",
	// name, age, county, town, education, profession, marital, religion, ethnicity, phone, name
	InterestConfirmationSuccess: "%s aged %d, %s County, %s town, %s, %s, %s, %s, %s. Send DESCRIBE %s to get more details about %s.",
	InterestNoNotifications:     "No pending interest notifications found.",
	// cause
	InterestConfirmationFailed: "Failed to process confirmation: %v",
}

func init() {
	for _, o := range all {
		if _, ok := catalog[o]; !ok {
			panic(fmt.Sprintf("messages: outcome %q has no template", o))
		}
	}
	if len(catalog) != len(all) {
		panic("messages: catalog has entries for undeclared outcomes")
	}
}

// Render produces the final text for an outcome, substituting the
// given values into its template in declaration order.
func Render(o Outcome, args ...any) string {
	tmpl, ok := catalog[o]
	if !ok {
		// init guarantees this cannot happen for declared outcomes
		panic(fmt.Sprintf("messages: unknown outcome %q", o))
	}
	if len(args) == 0 {
		return tmpl
	}
	return fmt.Sprintf(tmpl, args...)
}

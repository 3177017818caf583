package sms

import (
	"regexp"
	"strings"
)

// Kind identifies the command variant an inbound text was classified as.
type Kind int

const (
	KindUnrecognized Kind = iota
	KindRegister
	KindDetailsSubmit
	KindSelfDescribe
	KindMatchQuery
	KindNextPage
	KindProfileLookup
	KindDescribeLookup
	KindInterestConfirm
)

func (k Kind) String() string {
	switch k {
	case KindRegister:
		return "register"
	case KindDetailsSubmit:
		return "details_submit"
	case KindSelfDescribe:
		return "self_describe"
	case KindMatchQuery:
		return "match_query"
	case KindNextPage:
		return "next_page"
	case KindProfileLookup:
		return "profile_lookup"
	case KindDescribeLookup:
		return "describe_lookup"
	case KindInterestConfirm:
		return "interest_confirm"
	}
	return "unrecognized"
}

// Command is the result of classifying one inbound text.
// Text carries the normalized message for recognized commands and the
// original input for unrecognized ones, for diagnostics.
type Command struct {
	Kind Kind
	Text string
}

var phonePattern = regexp.MustCompile(`^\d{10}$`)

// Classify normalizes raw text (trim + case-fold) and maps it onto
// exactly one command variant. The precedence of the prefix checks is
// fixed; a 10-digit lookup can never collide with a keyword prefix
// because it is digits only. Pure function: no store access, no side
// effects.
func Classify(raw string) Command {
	text := strings.ToLower(strings.TrimSpace(raw))

	switch {
	case strings.HasPrefix(text, "start#"):
		return Command{Kind: KindRegister, Text: text}
	case strings.HasPrefix(text, "details#"):
		return Command{Kind: KindDetailsSubmit, Text: text}
	case strings.HasPrefix(text, "myself"):
		return Command{Kind: KindSelfDescribe, Text: text}
	case strings.HasPrefix(text, "match#"):
		return Command{Kind: KindMatchQuery, Text: text}
	case strings.HasPrefix(text, "next"):
		return Command{Kind: KindNextPage, Text: text}
	case phonePattern.MatchString(text):
		return Command{Kind: KindProfileLookup, Text: text}
	case strings.HasPrefix(text, "describe "):
		return Command{Kind: KindDescribeLookup, Text: text}
	case strings.HasPrefix(text, "yes"):
		return Command{Kind: KindInterestConfirm, Text: text}
	}

	return Command{Kind: KindUnrecognized, Text: raw}
}

package diningdialog

import (
	"fmt"
	"strings"
)

const (
	msgGreeting         = "Hi there, how can I help?"
	msgThankYou         = "You're welcome!"
	msgUnknownIntent    = "I'm not sure how to help with that."
	msgLocationRejected = "Sorry, I can only fulfill requests for Manhattan. Please enter Manhattan or a NYC neighborhood."
	msgAreaUnsupported  = "Sorry, I can only suggest restaurants in Manhattan for now. Come back any time you're dining there!"
	msgNoHistory        = "I couldn't find a previous search for that email. Say \"I need restaurant suggestions\" to start a new search."
	msgStartNewSearch   = "No problem! Tell me what you're in the mood for and we'll start a new search."
	msgTryLater         = "Sorry, I'm having trouble right now. Please try again later."
)

// locationAttemptsKey is the session attribute counting rejected locations.
const locationAttemptsKey = "locationAttempts"

var supportedLocations = map[string]struct{}{
	"manhattan": {},
	"new york":  {},
	"nyc":       {},
	"ny":        {},
}

var affirmativeTokens = map[string]struct{}{
	"yes":  {},
	"yeah": {},
	"sure": {},
	"yep":  {},
	"ok":   {},
	"okay": {},
}

func normalizeToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func isSupportedLocation(location string) bool {
	_, ok := supportedLocations[normalizeToken(location)]
	return ok
}

func isAffirmative(answer string) bool {
	_, ok := affirmativeTokens[normalizeToken(answer)]
	return ok
}

func confirmationMessage(cuisine, diningTime, people, email string) string {
	return fmt.Sprintf(
		"You're all set! Expect restaurant suggestions for %s cuisine at %s for %s people. "+
			"I'll send them to %s shortly. Have a great day!",
		cuisine, diningTime, people, email)
}

func lastSearchSummary(cuisine, location, diningTime, people string) string {
	return fmt.Sprintf(
		"Welcome back! Last time you searched for %s cuisine in %s at %s for %s people. "+
			"Would you like me to send new suggestions based on that search? (yes/no)",
		cuisine, location, diningTime, people)
}

func sendingNowMessage(cuisine, email string) string {
	return fmt.Sprintf("Great! I'm sending %s restaurant suggestions to %s now.", cuisine, email)
}

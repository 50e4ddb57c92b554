// internal/models/dialog.go
package models

import "strings"

// Intent identifies which conversational intent a code-hook event belongs to.
type Intent int

const (
	IntentUnknown Intent = iota
	IntentGreeting
	IntentThankYou
	IntentDiningSuggestions
	IntentReturningUser
)

// Wire names as configured on the bot.
const (
	IntentNameGreeting          = "GreetingIntent"
	IntentNameThankYou          = "ThankYouIntent"
	IntentNameDiningSuggestions = "DiningSuggestionsIntent"
	IntentNameReturningUser     = "ReturningUserIntent"
)

var intentNames = map[string]Intent{
	IntentNameGreeting:          IntentGreeting,
	IntentNameThankYou:          IntentThankYou,
	IntentNameDiningSuggestions: IntentDiningSuggestions,
	IntentNameReturningUser:     IntentReturningUser,
}

// ParseIntent maps a wire intent name to its Intent. Unrecognised names map to IntentUnknown.
func ParseIntent(name string) Intent {
	if intent, ok := intentNames[name]; ok {
		return intent
	}
	return IntentUnknown
}

func (i Intent) String() string {
	switch i {
	case IntentGreeting:
		return IntentNameGreeting
	case IntentThankYou:
		return IntentNameThankYou
	case IntentDiningSuggestions:
		return IntentNameDiningSuggestions
	case IntentReturningUser:
		return IntentNameReturningUser
	default:
		return "Unknown"
	}
}

// Slot names
const (
	SlotLocation          = "Location"
	SlotCuisine           = "Cuisine"
	SlotDiningTime        = "DiningTime"
	SlotNumberOfPeople    = "NumberOfPeople"
	SlotEmail             = "Email"
	SlotConfirmSuggestion = "ConfirmSuggestion"
)

// DialogPhase is the invocation source of a code-hook call.
type DialogPhase string

const (
	DialogCodeHook      DialogPhase = "DialogCodeHook"
	FulfillmentCodeHook DialogPhase = "FulfillmentCodeHook"
)

// Valid reports whether p is one of the known phases.
func (p DialogPhase) Valid() bool {
	return p == DialogCodeHook || p == FulfillmentCodeHook
}

type DialogActionType string

const (
	DialogActionClose      DialogActionType = "Close"
	DialogActionElicitSlot DialogActionType = "ElicitSlot"
	DialogActionDelegate   DialogActionType = "Delegate"
)

type IntentState string

const (
	IntentStateInProgress IntentState = "InProgress"
	IntentStateFulfilled  IntentState = "Fulfilled"
)

// SlotValue holds the NLU's reading of a slot.
type SlotValue struct {
	OriginalValue    string   `json:"originalValue,omitempty"`
	InterpretedValue string   `json:"interpretedValue,omitempty"`
	ResolvedValues   []string `json:"resolvedValues,omitempty"`
}

type Slot struct {
	Value *SlotValue `json:"value,omitempty"`
}

// Slots maps slot name to slot. A nil entry is an unfilled slot.
type Slots map[string]*Slot

// Get returns the trimmed interpreted value of a slot, or "" when the slot
// is absent or empty.
func (s Slots) Get(name string) string {
	slot, ok := s[name]
	if !ok || slot == nil || slot.Value == nil {
		return ""
	}
	return strings.TrimSpace(slot.Value.InterpretedValue)
}

// Has reports whether a slot carries a non-empty interpreted value.
func (s Slots) Has(name string) bool {
	return s.Get(name) != ""
}

// Clone returns a shallow copy of the slot map.
func (s Slots) Clone() Slots {
	if s == nil {
		return nil
	}
	out := make(Slots, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// NewSlot builds a slot with the given interpreted value.
func NewSlot(value string) *Slot {
	return &Slot{Value: &SlotValue{OriginalValue: value, InterpretedValue: value}}
}

type IntentPayload struct {
	Name  string      `json:"name"`
	Slots Slots       `json:"slots,omitempty"`
	State IntentState `json:"state,omitempty"`
}

type DialogAction struct {
	Type         DialogActionType `json:"type"`
	SlotToElicit string           `json:"slotToElicit,omitempty"`
}

type SessionState struct {
	DialogAction      *DialogAction     `json:"dialogAction,omitempty"`
	Intent            IntentPayload     `json:"intent"`
	SessionAttributes map[string]string `json:"sessionAttributes,omitempty"`
}

// IntentRequest is the code-hook event produced by the NLU collaborator for one user turn.
type IntentRequest struct {
	SessionID        string       `json:"sessionId,omitempty"`
	InputTranscript  string       `json:"inputTranscript,omitempty"`
	InvocationSource DialogPhase  `json:"invocationSource"`
	SessionState     SessionState `json:"sessionState"`
}

// Intent returns the enumerated intent of the request.
func (r *IntentRequest) Intent() Intent {
	return ParseIntent(r.SessionState.Intent.Name)
}

// Slots returns the slot map of the request's intent.
func (r *IntentRequest) Slots() Slots {
	return r.SessionState.Intent.Slots
}

type Message struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// IntentResponse is returned to the NLU collaborator: the next dialog action plus messages.
type IntentResponse struct {
	SessionState SessionState `json:"sessionState"`
	Messages     []Message    `json:"messages,omitempty"`
}

// Action returns the dialog action type of the response.
func (r *IntentResponse) Action() DialogActionType {
	if r.SessionState.DialogAction == nil {
		return ""
	}
	return r.SessionState.DialogAction.Type
}

// Text joins the plain-text messages of the response.
func (r *IntentResponse) Text() string {
	parts := make([]string, 0, len(r.Messages))
	for _, m := range r.Messages {
		parts = append(parts, m.Content)
	}
	return strings.Join(parts, "\n")
}

package entities

// InvocationSource tells the fulfillment handler why the intent engine called it.
type InvocationSource string

const (
	// InvocationDialogCodeHook is sent on every turn while slots are being collected.
	InvocationDialogCodeHook InvocationSource = "DialogCodeHook"
	// InvocationFulfillmentCodeHook is sent once all slots are filled.
	InvocationFulfillmentCodeHook InvocationSource = "FulfillmentCodeHook"
)

// DialogState is the handler state selected by the invocation source.
type DialogState int

const (
	DialogStateUnknown DialogState = iota
	DialogStateAwaitingValidation
	DialogStateFulfilling
)

func (s DialogState) String() string {
	switch s {
	case DialogStateAwaitingValidation:
		return "AwaitingValidation"
	case DialogStateFulfilling:
		return "Fulfilling"
	default:
		return "Unknown"
	}
}

// State maps the invocation source onto the handler state machine.
func (s InvocationSource) State() DialogState {
	switch s {
	case InvocationDialogCodeHook:
		return DialogStateAwaitingValidation
	case InvocationFulfillmentCodeHook:
		return DialogStateFulfilling
	default:
		return DialogStateUnknown
	}
}

// Intent names served by the fulfillment handler.
const (
	IntentGreeting          = "GreetingIntent"
	IntentThankYou          = "ThankYouIntent"
	IntentDiningSuggestions = "DiningSuggestionsIntent"
)

// Dialog action types.
const (
	DialogActionClose      = "Close"
	DialogActionDelegate   = "Delegate"
	DialogActionElicitSlot = "ElicitSlot"
)

// FulfillmentStateFulfilled marks a successfully closed dialog.
const FulfillmentStateFulfilled = "Fulfilled"

// ContentTypePlainText is the only message content type produced.
const ContentTypePlainText = "PlainText"

// Slots maps slot names to their values. A nil value means the slot is unfilled.
type Slots map[string]*string

// Value returns the slot value or an empty string when unfilled.
func (s Slots) Value(name string) string {
	if v, ok := s[name]; ok && v != nil {
		return *v
	}
	return ""
}

// Filled reports whether the slot has a value.
func (s Slots) Filled(name string) bool {
	v, ok := s[name]
	return ok && v != nil
}

// Clone copies the slot map so the caller's map is never mutated.
func (s Slots) Clone() Slots {
	out := make(Slots, len(s))
	for k, v := range s {
		if v == nil {
			out[k] = nil
			continue
		}
		val := *v
		out[k] = &val
	}
	return out
}

// DialogIntent is the intent the engine recognised for the current turn.
type DialogIntent struct {
	Name               string `json:"name"`
	Slots              Slots  `json:"slots"`
	ConfirmationStatus string `json:"confirmationStatus,omitempty"`
}

// DialogBot identifies the bot that invoked the handler.
type DialogBot struct {
	Name    string `json:"name"`
	Alias   string `json:"alias,omitempty"`
	Version string `json:"version,omitempty"`
}

// DialogEvent is the intent engine's code hook input.
type DialogEvent struct {
	MessageVersion    string            `json:"messageVersion,omitempty"`
	InvocationSource  InvocationSource  `json:"invocationSource"`
	UserID            string            `json:"userId,omitempty"`
	InputTranscript   string            `json:"inputTranscript,omitempty"`
	OutputDialogMode  string            `json:"outputDialogMode,omitempty"`
	SessionAttributes map[string]string `json:"sessionAttributes"`
	Bot               DialogBot         `json:"bot"`
	CurrentIntent     DialogIntent      `json:"currentIntent"`
}

// DialogMessage is a message returned to the user through the engine.
type DialogMessage struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// DialogAction tells the engine what to do next.
type DialogAction struct {
	Type             string         `json:"type"`
	FulfillmentState string         `json:"fulfillmentState,omitempty"`
	Message          *DialogMessage `json:"message,omitempty"`
	IntentName       string         `json:"intentName,omitempty"`
	Slots            Slots          `json:"slots,omitempty"`
	SlotToElicit     string         `json:"slotToElicit,omitempty"`
}

// DialogResponse is the intent engine's code hook output.
type DialogResponse struct {
	SessionAttributes map[string]string `json:"sessionAttributes"`
	DialogAction      DialogAction      `json:"dialogAction"`
}

// CloseDialog ends the conversation as fulfilled with a plain text message.
func CloseDialog(sessionAttributes map[string]string, content string) *DialogResponse {
	return &DialogResponse{
		SessionAttributes: sessionAttributes,
		DialogAction: DialogAction{
			Type:             DialogActionClose,
			FulfillmentState: FulfillmentStateFulfilled,
			Message:          &DialogMessage{ContentType: ContentTypePlainText, Content: content},
		},
	}
}

// DelegateDialog hands slot filling back to the engine unchanged.
func DelegateDialog(sessionAttributes map[string]string, slots Slots) *DialogResponse {
	return &DialogResponse{
		SessionAttributes: sessionAttributes,
		DialogAction: DialogAction{
			Type:  DialogActionDelegate,
			Slots: slots,
		},
	}
}

// ElicitSlot asks the user to provide slotToElicit again.
func ElicitSlot(sessionAttributes map[string]string, intentName string, slots Slots, slotToElicit, content string) *DialogResponse {
	return &DialogResponse{
		SessionAttributes: sessionAttributes,
		DialogAction: DialogAction{
			Type:         DialogActionElicitSlot,
			IntentName:   intentName,
			Slots:        slots,
			SlotToElicit: slotToElicit,
			Message:      &DialogMessage{ContentType: ContentTypePlainText, Content: content},
		},
	}
}

// ValidationResult is the outcome of validating the dining request slots.
type ValidationResult struct {
	IsValid      bool
	ViolatedSlot string
	Message      string
}

// Valid is the passing validation result.
func Valid() ValidationResult {
	return ValidationResult{IsValid: true}
}

// Invalid builds a failing validation result for slot.
func Invalid(slot, message string) ValidationResult {
	return ValidationResult{ViolatedSlot: slot, Message: message}
}

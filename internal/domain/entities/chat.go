package entities

// MessageTypeUnstructured is the only chat message type exchanged with the front end.
const MessageTypeUnstructured = "unstructured"

// UnstructuredText wraps free text typed by the user or returned by the bot.
type UnstructuredText struct {
	ID        string `json:"id,omitempty"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp,omitempty"`
}

// ChatMessage is a single message in a chat envelope.
type ChatMessage struct {
	Type         string           `json:"type"`
	Unstructured UnstructuredText `json:"unstructured"`
}

// ChatRequest is the envelope posted by the chat front end.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
}

// Text returns the text of the first message, or an empty string.
func (r ChatRequest) Text() string {
	if len(r.Messages) == 0 {
		return ""
	}
	return r.Messages[0].Unstructured.Text
}

// ChatResponse is the envelope returned to the chat front end.
type ChatResponse struct {
	StatusCode int           `json:"statusCode"`
	Messages   []ChatMessage `json:"messages"`
}

// NewChatResponse wraps reply in a single unstructured message.
func NewChatResponse(statusCode int, reply string) *ChatResponse {
	return &ChatResponse{
		StatusCode: statusCode,
		Messages: []ChatMessage{{
			Type:         MessageTypeUnstructured,
			Unstructured: UnstructuredText{Text: reply},
		}},
	}
}

// WorkerResult is the status reported by one recommendation worker run.
type WorkerResult struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

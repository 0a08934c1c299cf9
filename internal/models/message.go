package models

// Message is one chat line. Values are never mutated after creation.
type Message struct {
	Text       string
	IsQuestion bool
}

// NewMessage creates a message
func NewMessage(text string, isQuestion bool) Message {
	return Message{Text: text, IsQuestion: isQuestion}
}

// NewQuestion creates a message sent by the user
func NewQuestion(text string) Message {
	return NewMessage(text, true)
}

// NewAnswer creates a message produced by the service (or the client itself)
func NewAnswer(text string) Message {
	return NewMessage(text, false)
}

// Role returns "user" for questions and "assistant" for answers
func (m Message) Role() string {
	if m.IsQuestion {
		return "user"
	}
	return "assistant"
}

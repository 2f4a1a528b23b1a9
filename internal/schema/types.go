package schema

// Wire shapes exchanged with the chat client.

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

type ChatRequest struct {
	Messages        []Message `json:"messages"`
	ChatID          string    `json:"chatId"`
	UserID          string    `json:"userId"`
	Model           string    `json:"model"`
	IsAuthenticated bool      `json:"isAuthenticated"`
	SystemPrompt    string    `json:"systemPrompt"`
	EnableSearch    bool      `json:"enableSearch"`
}

// LastMessage returns the message the gateway acts upon.
func (r ChatRequest) LastMessage() (Message, bool) {
	if len(r.Messages) == 0 {
		return Message{}, false
	}
	return r.Messages[len(r.Messages)-1], true
}

type Message struct {
	Role        Role         `json:"role"`
	Content     string       `json:"content"`
	Attachments []Attachment `json:"experimental_attachments,omitempty"`
}

type Attachment struct {
	Name        string `json:"name,omitempty"`
	ContentType string `json:"contentType"`
	URL         string `json:"url"`
}

type ChatResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

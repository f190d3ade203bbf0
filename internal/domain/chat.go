package domain

// Role values for chat turns and prompt messages.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultUserID is the shared sentinel identity used when a caller does not
// supply a userId. All anonymous callers share this identity; this mirrors the
// single-user deployment model and is a known limitation, not a bug.
const DefaultUserID = "default_user"

// ChatMessage is the provider-agnostic chat message shape used by the handler,
// prompt assembly, and LLM integrations.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

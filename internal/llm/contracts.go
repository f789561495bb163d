package llm

import "context"

// TaskKind selects the prompt shape and decoding parameters for one flow.
type TaskKind string

const (
	TaskSimplify TaskKind = "simplify"
	TaskConcerns TaskKind = "concerns"
	TaskCompare  TaskKind = "compare"
	TaskChat     TaskKind = "chat"
)

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of a chat-completions conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Params are the fixed decoding parameters for one task kind.
type Params struct {
	Temperature float32
	MaxTokens   int
}

// ParamsFor returns the decoding parameters for a task. Concerns runs cooler
// than the free-text tasks so the JSON stays well formed.
func ParamsFor(task TaskKind) Params {
	switch task {
	case TaskConcerns:
		return Params{Temperature: 0.5, MaxTokens: 2000}
	case TaskSimplify:
		return Params{Temperature: 0.7, MaxTokens: 1500}
	case TaskCompare:
		return Params{Temperature: 0.7, MaxTokens: 2000}
	case TaskChat:
		return Params{Temperature: 0.7, MaxTokens: 1000}
	default:
		return Params{Temperature: 0.7, MaxTokens: 1500}
	}
}

// Byte budgets for document text embedded into prompts, bounding the request
// to the model's context window.
const (
	SimplifyBudget    = 3000
	ConcernsBudget    = 4000
	CompareBudget     = 3000
	ChatContextBudget = 2000
)

// ConcernEntry is one concerning clause flagged by the model. Severity is
// instructed to be LOW/MEDIUM/HIGH but carried verbatim from the model.
type ConcernEntry struct {
	Clause         string `json:"clause"`
	Concern        string `json:"concern"`
	Severity       string `json:"severity"`
	Recommendation string `json:"recommendation"`
}

// Completer is the interface task flows depend on. One call, one synchronous
// request; implementations do not retry or stream.
type Completer interface {
	Complete(ctx context.Context, system string, messages []ChatMessage, params Params) (string, error)
}

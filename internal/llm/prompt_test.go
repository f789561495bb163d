package llm_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"legalens/internal/llm"
)

func TestTruncate(t *testing.T) {
	long := strings.Repeat("a", 5000)
	assert.Len(t, llm.Truncate(long, 3000), 3000)
	assert.Equal(t, "short", llm.Truncate("short", 3000))
	assert.Equal(t, "", llm.Truncate("", 3000))
}

func TestSimplifyPromptTruncation(t *testing.T) {
	long := strings.Repeat("x", llm.SimplifyBudget+500)
	_, user := llm.BuildSimplifyPrompt(long, "")

	// the embedded text is exactly the budget, never more
	assert.Contains(t, user, strings.Repeat("x", llm.SimplifyBudget))
	assert.NotContains(t, user, strings.Repeat("x", llm.SimplifyBudget+1))
}

func TestSimplifyPromptShape(t *testing.T) {
	system, user := llm.BuildSimplifyPrompt("The party of the first part...", "")
	assert.Contains(t, system, "legal document simplifier")
	assert.Contains(t, user, "brief summary")
	assert.Contains(t, user, "obligations and rights")
	assert.Contains(t, user, "The party of the first part...")
}

func TestSimplifyPromptWithQuery(t *testing.T) {
	system, user := llm.BuildSimplifyPrompt("Some clause text.", "Can I sublet?")
	assert.Contains(t, system, "legal document simplifier")
	assert.Contains(t, user, "User Question: Can I sublet?")
	assert.Contains(t, user, "Some clause text.")
	assert.NotContains(t, user, "numbered list")
}

func TestConcernsPromptShape(t *testing.T) {
	long := strings.Repeat("y", llm.ConcernsBudget+1)
	system, user := llm.BuildConcernsPrompt(long)

	assert.Contains(t, system, "only valid JSON")
	for _, field := range []string{`"clause"`, `"concern"`, `"severity"`, `"recommendation"`} {
		assert.Contains(t, user, field)
	}
	assert.Contains(t, user, strings.Repeat("y", llm.ConcernsBudget))
	assert.NotContains(t, user, strings.Repeat("y", llm.ConcernsBudget+1))
}

func TestComparePromptShape(t *testing.T) {
	_, user := llm.BuildComparePrompt("lease_a.pdf", "text one", "lease_b.pdf", "text two")
	assert.Contains(t, user, "Document 1 (lease_a.pdf):")
	assert.Contains(t, user, "Document 2 (lease_b.pdf):")
	assert.Contains(t, user, "text one")
	assert.Contains(t, user, "text two")
	assert.Contains(t, user, "more favorable")
}

func TestComparePromptTruncatesBothSides(t *testing.T) {
	a := strings.Repeat("a", llm.CompareBudget+100)
	b := strings.Repeat("b", llm.CompareBudget+100)
	_, user := llm.BuildComparePrompt("one", a, "two", b)
	assert.NotContains(t, user, strings.Repeat("a", llm.CompareBudget+1))
	assert.NotContains(t, user, strings.Repeat("b", llm.CompareBudget+1))
}

func TestBuildChatTurn(t *testing.T) {
	assert.Equal(t, "hi", llm.BuildChatTurn("hi", ""))

	ctx := strings.Repeat("c", llm.ChatContextBudget+200)
	turn := llm.BuildChatTurn("what does clause 3 mean?", ctx)
	assert.Contains(t, turn, "Document Context:")
	assert.Contains(t, turn, "User Question: what does clause 3 mean?")
	assert.NotContains(t, turn, strings.Repeat("c", llm.ChatContextBudget+1))
}

func TestParamsFor(t *testing.T) {
	assert.Equal(t, llm.Params{Temperature: 0.5, MaxTokens: 2000}, llm.ParamsFor(llm.TaskConcerns))
	assert.Equal(t, llm.Params{Temperature: 0.7, MaxTokens: 1500}, llm.ParamsFor(llm.TaskSimplify))
	assert.Equal(t, llm.Params{Temperature: 0.7, MaxTokens: 2000}, llm.ParamsFor(llm.TaskCompare))
	assert.Equal(t, llm.Params{Temperature: 0.7, MaxTokens: 1000}, llm.ParamsFor(llm.TaskChat))
}

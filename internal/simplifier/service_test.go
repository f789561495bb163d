package simplifier_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legalens/internal/common"
	"legalens/internal/llm"
	"legalens/internal/session"
	"legalens/internal/simplifier"
)

type recordedCall struct {
	system   string
	messages []llm.ChatMessage
	params   llm.Params
}

// fakeCompleter replays canned replies and records every request.
type fakeCompleter struct {
	replies []string
	err     error
	calls   []recordedCall
}

func (f *fakeCompleter) Complete(_ context.Context, system string, messages []llm.ChatMessage, params llm.Params) (string, error) {
	f.calls = append(f.calls, recordedCall{system: system, messages: messages, params: params})
	if f.err != nil {
		return "", f.err
	}
	reply := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return reply, nil
}

func newService(fake *fakeCompleter) (*simplifier.Service, *session.Session) {
	return simplifier.NewService(fake, nil), session.New()
}

func TestLoadDocumentUnsupportedSkipsGateway(t *testing.T) {
	fake := &fakeCompleter{replies: []string{"never"}}
	svc, sess := newService(fake)

	_, err := svc.LoadDocument(sess, "malware", "", []byte("MZ"), "exe")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrUnsupportedFormat))
	assert.Empty(t, fake.calls)
}

func TestAnalyze(t *testing.T) {
	fake := &fakeCompleter{replies: []string{"  Summary: you pay rent monthly.  "}}
	svc, sess := newService(fake)

	_, err := svc.LoadDocument(sess, "contract.txt", "", []byte("Tenant shall pay $500 monthly."), "txt")
	require.NoError(t, err)

	analysis, err := svc.Analyze(context.Background(), sess, "contract.txt")
	require.NoError(t, err)
	assert.Equal(t, "Summary: you pay rent monthly.", analysis)
	assert.Equal(t, analysis, sess.CurrentAnalysis())

	require.Len(t, fake.calls, 1)
	call := fake.calls[0]
	assert.Equal(t, llm.ParamsFor(llm.TaskSimplify), call.params)
	require.Len(t, call.messages, 1)
	assert.Equal(t, llm.RoleUser, call.messages[0].Role)
	assert.Contains(t, call.messages[0].Content, "Tenant shall pay $500 monthly.")
}

func TestAnalyzeUnknownDocument(t *testing.T) {
	fake := &fakeCompleter{replies: []string{"never"}}
	svc, sess := newService(fake)

	_, err := svc.Analyze(context.Background(), sess, "missing.pdf")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
	assert.Empty(t, fake.calls)
}

func TestAnalyzeGatewayFailure(t *testing.T) {
	fake := &fakeCompleter{err: errors.New("groq: rate limit exceeded")}
	svc, sess := newService(fake)
	sess.PutDocument("doc", "text", "")

	_, err := svc.Analyze(context.Background(), sess, "doc")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrGateway))
	assert.Contains(t, common.UserMessage(err), "rate limit exceeded")
	assert.Empty(t, sess.CurrentAnalysis())
}

func TestAsk(t *testing.T) {
	fake := &fakeCompleter{replies: []string{"Yes, with written consent."}}
	svc, sess := newService(fake)
	sess.PutDocument("lease", "Subletting requires consent.", "")

	answer, err := svc.Ask(context.Background(), sess, "lease", "Can I sublet?")
	require.NoError(t, err)
	assert.Equal(t, "Yes, with written consent.", answer)

	require.Len(t, fake.calls, 1)
	assert.Contains(t, fake.calls[0].messages[0].Content, "User Question: Can I sublet?")
	// stateless: nothing lands on the transcript
	assert.Empty(t, sess.Turns())
}

func TestConcerns(t *testing.T) {
	reply := "```json\n[{\"clause\": \"auto-renewal\", \"concern\": \"renews silently\", \"severity\": \"MEDIUM\", \"recommendation\": \"set a reminder\"}]\n```"
	fake := &fakeCompleter{replies: []string{reply}}
	svc, sess := newService(fake)
	sess.PutDocument("lease", "This lease renews automatically.", "")

	entries, err := svc.Concerns(context.Background(), sess, "lease")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "auto-renewal", entries[0].Clause)

	require.Len(t, fake.calls, 1)
	assert.Equal(t, llm.ParamsFor(llm.TaskConcerns), fake.calls[0].params)

	// formatted list becomes the current analysis, raw list is kept for export
	assert.Contains(t, sess.CurrentAnalysis(), "CONCERNING CLAUSES ANALYSIS")
	assert.Contains(t, sess.CurrentAnalysis(), "[MEDIUM] auto-renewal")
	assert.Len(t, sess.Concerns(), 1)
}

func TestConcernsMalformedOutputDegradesToEmptyList(t *testing.T) {
	fake := &fakeCompleter{replies: []string{"I'm sorry, I can't produce JSON today."}}
	svc, sess := newService(fake)
	sess.PutDocument("lease", "text", "")

	entries, err := svc.Concerns(context.Background(), sess, "lease")
	require.NoError(t, err)
	require.NotNil(t, entries)
	assert.Empty(t, entries)
	assert.Contains(t, sess.CurrentAnalysis(), "CONCERNING CLAUSES ANALYSIS")
}

func TestCompare(t *testing.T) {
	fake := &fakeCompleter{replies: []string{"Document 2 is more favorable."}}
	svc, sess := newService(fake)
	sess.PutDocument("a", "alpha text", "")
	sess.PutDocument("b", "beta text", "")

	comparison, err := svc.Compare(context.Background(), sess, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "Document 2 is more favorable.", comparison)
	assert.Equal(t, comparison, sess.CurrentAnalysis())

	require.Len(t, fake.calls, 1)
	assert.Equal(t, llm.ParamsFor(llm.TaskCompare), fake.calls[0].params)
	assert.Contains(t, fake.calls[0].messages[0].Content, "alpha text")
	assert.Contains(t, fake.calls[0].messages[0].Content, "beta text")
}

func TestCompareMissingDocument(t *testing.T) {
	fake := &fakeCompleter{replies: []string{"never"}}
	svc, sess := newService(fake)
	sess.PutDocument("a", "alpha", "")

	_, err := svc.Compare(context.Background(), sess, "a", "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
	assert.Empty(t, fake.calls)
}

func TestChatContinuity(t *testing.T) {
	fake := &fakeCompleter{replies: []string{"First answer.", "Second answer."}}
	svc, sess := newService(fake)

	_, err := svc.Chat(context.Background(), sess, "first question", "")
	require.NoError(t, err)
	_, err = svc.Chat(context.Background(), sess, "second question", "")
	require.NoError(t, err)

	turns := sess.Turns()
	require.Len(t, turns, 4)
	assert.Equal(t, []string{llm.RoleUser, llm.RoleAssistant, llm.RoleUser, llm.RoleAssistant},
		[]string{turns[0].Role, turns[1].Role, turns[2].Role, turns[3].Role})

	// the second call replays the full transcript so far
	require.Len(t, fake.calls, 2)
	assert.Len(t, fake.calls[0].messages, 1)
	assert.Len(t, fake.calls[1].messages, 3)

	sess.ClearTurns()
	assert.Empty(t, sess.Turns())
}

func TestChatEmbedsDocumentContext(t *testing.T) {
	fake := &fakeCompleter{replies: []string{"It means rent is due monthly."}}
	svc, sess := newService(fake)
	sess.PutDocument("lease", "Rent is due on the first of each month.", "")

	_, err := svc.Chat(context.Background(), sess, "when is rent due?", "lease")
	require.NoError(t, err)

	turns := sess.Turns()
	require.Len(t, turns, 2)
	assert.Contains(t, turns[0].Content, "Document Context:")
	assert.Contains(t, turns[0].Content, "Rent is due on the first of each month.")
}

func TestChatUnknownDocumentStillChats(t *testing.T) {
	fake := &fakeCompleter{replies: []string{"Happy to help."}}
	svc, sess := newService(fake)

	reply, err := svc.Chat(context.Background(), sess, "hello", "not-loaded")
	require.NoError(t, err)
	assert.Equal(t, "Happy to help.", reply)
	assert.NotContains(t, sess.Turns()[0].Content, "Document Context:")
}

func TestFormatConcerns(t *testing.T) {
	out := simplifier.FormatConcerns([]llm.ConcernEntry{
		{Clause: "c1", Concern: "x1", Severity: "HIGH", Recommendation: "r1"},
		{Clause: "c2", Concern: "x2", Severity: "LOW", Recommendation: "r2"},
	})
	assert.Contains(t, out, "[HIGH] c1")
	assert.Contains(t, out, "Concern: x2")
	assert.Contains(t, out, "Recommendation: r1")
}

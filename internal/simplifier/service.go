package simplifier

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"legalens/internal/common"
	"legalens/internal/document"
	"legalens/internal/llm"
	"legalens/internal/session"
)

// Service runs the four task flows (simplify, concerns, compare, chat)
// against the model gateway and writes results back onto the caller's
// session. Gateway and extraction failures are converted into descriptive
// errors at this boundary; they never escape as faults.
type Service struct {
	completer llm.Completer
	logger    *slog.Logger
}

func NewService(completer llm.Completer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{completer: completer, logger: logger}
}

// LoadDocument extracts text from data and stores it on the session under
// name. Unsupported or unreadable payloads fail here, before any model call.
func (s *Service) LoadDocument(sess *session.Session, name, sourcePath string, data []byte, ext string) (session.Document, error) {
	text, err := document.Load(data, ext)
	if err != nil {
		return session.Document{}, err
	}
	doc := sess.PutDocument(name, text, sourcePath)
	s.logger.Info("simplifier.document_loaded",
		"name", name, "bytes", len(data), "text_len", len(text))
	return doc, nil
}

// Analyze simplifies the named document and stores the result as the current
// analysis.
func (s *Service) Analyze(ctx context.Context, sess *session.Session, docName string) (string, error) {
	doc, err := sess.GetDocument(docName)
	if err != nil {
		return "", err
	}
	system, user := llm.BuildSimplifyPrompt(doc.Text, "")
	raw, err := s.complete(ctx, system, user, llm.TaskSimplify)
	if err != nil {
		return "", err
	}
	analysis := llm.InterpretText(raw)
	sess.SetCurrentAnalysis(analysis)
	return analysis, nil
}

// Ask answers a specific question about the named document in plain language.
// Unlike Chat it is stateless: nothing lands on the transcript.
func (s *Service) Ask(ctx context.Context, sess *session.Session, docName, query string) (string, error) {
	doc, err := sess.GetDocument(docName)
	if err != nil {
		return "", err
	}
	system, user := llm.BuildSimplifyPrompt(doc.Text, query)
	raw, err := s.complete(ctx, system, user, llm.TaskSimplify)
	if err != nil {
		return "", err
	}
	answer := llm.InterpretText(raw)
	sess.SetCurrentAnalysis(answer)
	return answer, nil
}

// Concerns flags concerning clauses in the named document. Malformed model
// output degrades to an empty list, never an error; the formatted list also
// becomes the current analysis so it can be exported.
func (s *Service) Concerns(ctx context.Context, sess *session.Session, docName string) ([]llm.ConcernEntry, error) {
	doc, err := sess.GetDocument(docName)
	if err != nil {
		return nil, err
	}
	system, user := llm.BuildConcernsPrompt(doc.Text)
	raw, err := s.complete(ctx, system, user, llm.TaskConcerns)
	if err != nil {
		return nil, err
	}
	entries := llm.DecodeConcerns(raw, s.logger)
	sess.SetConcerns(entries)
	sess.SetCurrentAnalysis(FormatConcerns(entries))
	return entries, nil
}

// Compare asks the model for a four-point comparison of two loaded documents.
func (s *Service) Compare(ctx context.Context, sess *session.Session, doc1, doc2 string) (string, error) {
	d1, err := sess.GetDocument(doc1)
	if err != nil {
		return "", err
	}
	d2, err := sess.GetDocument(doc2)
	if err != nil {
		return "", err
	}
	system, user := llm.BuildComparePrompt(d1.Name, d1.Text, d2.Name, d2.Text)
	raw, err := s.complete(ctx, system, user, llm.TaskCompare)
	if err != nil {
		return "", err
	}
	comparison := llm.InterpretText(raw)
	sess.SetCurrentAnalysis(comparison)
	return comparison, nil
}

// Chat appends a user turn (with optional document context) and the model's
// reply to the session transcript. A named document that isn't loaded is
// simply chatted about without context, matching the lenient trigger
// contract. The user turn stays on the transcript even when the gateway
// fails.
func (s *Service) Chat(ctx context.Context, sess *session.Session, message, docName string) (string, error) {
	var docText string
	if docName != "" {
		if doc, err := sess.GetDocument(docName); err == nil {
			docText = doc.Text
		}
	}

	sess.AppendTurn(llm.RoleUser, llm.BuildChatTurn(message, docText))

	start := time.Now()
	raw, err := s.completer.Complete(ctx, llm.ChatSystemPrompt(), sess.Turns(), llm.ParamsFor(llm.TaskChat))
	if err != nil {
		s.logger.Error("simplifier.task_failed",
			"task", string(llm.TaskChat), "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return "", common.NewAppError("GATEWAY_ERROR", "error calling model API: "+err.Error(), common.ErrGateway)
	}
	s.logger.Info("simplifier.task_ok",
		"task", string(llm.TaskChat),
		"content_len", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds())

	reply := llm.InterpretText(raw)
	sess.AppendTurn(llm.RoleAssistant, reply)
	return reply, nil
}

// complete runs one single-turn task round trip with the task's fixed
// parameters.
func (s *Service) complete(ctx context.Context, system, user string, task llm.TaskKind) (string, error) {
	start := time.Now()
	raw, err := s.completer.Complete(ctx, system,
		[]llm.ChatMessage{{Role: llm.RoleUser, Content: user}}, llm.ParamsFor(task))
	if err != nil {
		s.logger.Error("simplifier.task_failed",
			"task", string(task), "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return "", common.NewAppError("GATEWAY_ERROR", "error calling model API: "+err.Error(), common.ErrGateway)
	}
	s.logger.Info("simplifier.task_ok",
		"task", string(task),
		"content_len", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds())
	return raw, nil
}

// FormatConcerns renders the concerns list as the plain-text current analysis
// used for export.
func FormatConcerns(entries []llm.ConcernEntry) string {
	var b strings.Builder
	b.WriteString("CONCERNING CLAUSES ANALYSIS\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "\n[%s] %s\nConcern: %s\nRecommendation: %s\n",
			e.Severity, e.Clause, e.Concern, e.Recommendation)
	}
	return b.String()
}

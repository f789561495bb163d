package session

import (
	"sort"
	"sync"
	"time"

	"legalens/internal/common"
	"legalens/internal/llm"
)

// Document is one loaded document, held for the lifetime of its session and
// overwritten when the same name is loaded again.
type Document struct {
	Name       string
	Text       string
	SourcePath string
	LoadedAt   time.Time
}

// DocumentInfo is the listing view of a loaded document.
type DocumentInfo struct {
	Name     string    `json:"name"`
	LoadedAt time.Time `json:"loaded_at"`
	Length   int       `json:"length"`
}

// Session holds the mutable state of one logical user session: the loaded
// document set, the chat transcript, the single current-analysis slot and the
// most recent concerns list. Access is serialized; semantics stay
// last-writer-wins.
type Session struct {
	mu         sync.RWMutex
	documents  map[string]Document
	transcript []llm.ChatMessage
	analysis   string
	concerns   []llm.ConcernEntry
}

func New() *Session {
	return &Session{documents: make(map[string]Document)}
}

// PutDocument stores text under name, overwriting any previous load of the
// same name, and returns the stored record.
func (s *Session) PutDocument(name, text, sourcePath string) Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := Document{Name: name, Text: text, SourcePath: sourcePath, LoadedAt: time.Now()}
	s.documents[name] = doc
	return doc
}

// GetDocument looks a document up by its exact (case-sensitive) name.
func (s *Session) GetDocument(name string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[name]
	if !ok {
		return Document{}, common.NewAppError("NOT_FOUND",
			"document "+name+" not found, load it first", common.ErrNotFound)
	}
	return doc, nil
}

// ListDocuments returns the loaded documents sorted by name, each with its
// most recent load time.
func (s *Session) ListDocuments() []DocumentInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]DocumentInfo, 0, len(s.documents))
	for _, doc := range s.documents {
		out = append(out, DocumentInfo{
			Name:     doc.Name,
			LoadedAt: doc.LoadedAt,
			Length:   len(doc.Text),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SetCurrentAnalysis overwrites the single current-analysis slot.
func (s *Session) SetCurrentAnalysis(analysis string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analysis = analysis
}

// CurrentAnalysis returns the most recent task result, empty when no task has
// run yet.
func (s *Session) CurrentAnalysis() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.analysis
}

// SetConcerns overwrites the most recent concerns list.
func (s *Session) SetConcerns(entries []llm.ConcernEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.concerns = append([]llm.ConcernEntry(nil), entries...)
}

// Concerns returns a copy of the most recent concerns list.
func (s *Session) Concerns() []llm.ConcernEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]llm.ConcernEntry(nil), s.concerns...)
}

// AppendTurn appends one turn to the conversation transcript.
func (s *Session) AppendTurn(role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = append(s.transcript, llm.ChatMessage{Role: role, Content: content})
}

// Turns returns a copy of the transcript in append order.
func (s *Session) Turns() []llm.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]llm.ChatMessage(nil), s.transcript...)
}

// ClearTurns resets the transcript. Documents and the current analysis
// persist.
func (s *Session) ClearTurns() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = nil
}

// DefaultID is the session used when a caller supplies none.
const DefaultID = "default"

// Manager hands out one Session per logical session ID.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Get returns the session for id, creating it on first use. An empty id maps
// to DefaultID.
func (m *Manager) Get(id string) *Session {
	if id == "" {
		id = DefaultID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		s = New()
		m.sessions[id] = s
	}
	return s
}

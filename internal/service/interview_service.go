package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/celestiq/interviewer/internal/interview"
)

var (
	// ErrSessionNotFound is returned for an unknown session id.
	ErrSessionNotFound = errors.New("interview session not found")
	// ErrActiveSessionExists rejects a second concurrent interview for
	// the same candidate.
	ErrActiveSessionExists = errors.New("candidate already has an active interview")
)

// InterviewService owns the live session registry and drives each
// session through the engine. Sessions live in memory for their whole
// run; the recorder persists scored units as they happen.
type InterviewService interface {
	Start(ctx context.Context, candidateID, email string, profile *ResumeProfile) (*interview.Session, error)
	NextQuestion(ctx context.Context, sessionID string) (*interview.Session, *interview.PendingQuestion, error)
	SubmitAnswer(ctx context.Context, sessionID, answer string) (*interview.Session, *interview.SubmitResult, error)
	Get(sessionID string) (*interview.Session, error)
}

type sessionEntry struct {
	mu      sync.Mutex
	session *interview.Session
}

type interviewService struct {
	engine *interview.Engine

	mu          sync.RWMutex
	sessions    map[string]*sessionEntry
	byCandidate map[string]string
}

func NewInterviewService(source QuestionService, scorer ScoringService, writer *PersistenceWriter) InterviewService {
	return &interviewService{
		engine:      interview.NewEngine(source, scorer, writer),
		sessions:    make(map[string]*sessionEntry),
		byCandidate: make(map[string]string),
	}
}

func (s *interviewService) Start(ctx context.Context, candidateID, email string, profile *ResumeProfile) (*interview.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if activeID, ok := s.byCandidate[candidateID]; ok {
		if entry, found := s.sessions[activeID]; found && !entry.session.Completed() {
			return nil, ErrActiveSessionExists
		}
	}

	var skills map[string][]string
	var projects []string
	if profile != nil {
		skills = profile.Skills
		projects = profile.Projects
	}

	session := interview.NewSession(candidateID, email, skills, projects)
	s.sessions[session.ID] = &sessionEntry{session: session}
	s.byCandidate[candidateID] = session.ID

	log.Info().Str("session", session.ID).Str("candidate", candidateID).Msg("Interview session started")
	return session, nil
}

func (s *interviewService) NextQuestion(ctx context.Context, sessionID string) (*interview.Session, *interview.PendingQuestion, error) {
	entry, err := s.entry(sessionID)
	if err != nil {
		return nil, nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	pending, err := s.engine.NextQuestion(ctx, entry.session)
	if err != nil {
		return entry.session, nil, err
	}
	return entry.session, pending, nil
}

func (s *interviewService) SubmitAnswer(ctx context.Context, sessionID, answer string) (*interview.Session, *interview.SubmitResult, error) {
	entry, err := s.entry(sessionID)
	if err != nil {
		return nil, nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	result, err := s.engine.SubmitAnswer(ctx, entry.session, answer)
	if err != nil {
		return entry.session, nil, err
	}
	if result.Completed {
		log.Info().Str("session", sessionID).
			Int("questions", len(entry.session.Questions)).
			Float64("average", entry.session.AverageScore).
			Msg("Interview session completed")
	}
	return entry.session, result, nil
}

func (s *interviewService) Get(sessionID string) (*interview.Session, error) {
	entry, err := s.entry(sessionID)
	if err != nil {
		return nil, err
	}
	return entry.session, nil
}

func (s *interviewService) entry(sessionID string) (*sessionEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return entry, nil
}

package interview

import (
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle position of a session.
type State string

const (
	StateNotStarted       State = "not_started"
	StateAwaitingQuestion State = "awaiting_question"
	StateAwaitingAnswer   State = "awaiting_answer"
	StateScoring          State = "scoring"
	StateCompleted        State = "completed"
)

// QuestionUnit is one scored question/answer pair. Immutable once
// appended to a session.
type QuestionUnit struct {
	Number        int       `json:"question_number"`
	Category      Category  `json:"category"`
	Question      string    `json:"question"`
	Answer        string    `json:"answer"`
	Score         int       `json:"score"`
	Justification string    `json:"justification"`
	Timestamp     time.Time `json:"timestamp"`
}

// PendingQuestion is a generated-but-unanswered proposal. At most one
// exists per session; its category slot is already reserved.
type PendingQuestion struct {
	Text     string   `json:"text"`
	Category Category `json:"category"`
}

// Session is the in-memory interview state. It is owned by a single
// request flow; nothing here is safe for concurrent use.
type Session struct {
	ID             string              `json:"id"`
	CandidateID    string              `json:"candidate_id"`
	CandidateEmail string              `json:"candidate_email"`
	Skills         map[string][]string `json:"skills"`
	Projects       []string            `json:"projects"`
	Quota          Quota               `json:"quota"`
	Questions      []QuestionUnit      `json:"questions"`
	Pending        *PendingQuestion    `json:"pending,omitempty"`
	Asked          []string            `json:"asked"`
	TotalScore     int                 `json:"total_score"`
	AverageScore   float64             `json:"average_score"`
	Discarded      int                 `json:"discarded"`
	State          State               `json:"state"`
	StartedAt      time.Time           `json:"started_at"`
}

// NewSession creates a not-started session for one candidate.
func NewSession(candidateID, candidateEmail string, skills map[string][]string, projects []string) *Session {
	return &Session{
		ID:             uuid.NewString(),
		CandidateID:    candidateID,
		CandidateEmail: candidateEmail,
		Skills:         skills,
		Projects:       projects,
		Quota:          NewQuota(),
		State:          StateNotStarted,
		StartedAt:      time.Now(),
	}
}

// Completed reports whether the session reached its terminal state.
func (s *Session) Completed() bool {
	return s.State == StateCompleted
}

// Status is the persisted status string for the session summary.
func (s *Session) Status() string {
	if s.Completed() {
		return "completed"
	}
	return "in_progress"
}

// propose installs a pending question. A fresh proposal reserves the
// category slot immediately; replacing an unanswered proposal for the
// already-reserved slot does not consume quota again.
func (s *Session) propose(text string, category Category) {
	if s.Pending == nil {
		s.Quota[category].Used++
	}
	s.Pending = &PendingQuestion{Text: text, Category: category}
	s.Asked = append(s.Asked, text)
	s.State = StateAwaitingAnswer
}

// finalize appends the scored unit, recomputes the running aggregates
// and clears the pending proposal.
func (s *Session) finalize(answer string, ev Evaluation) QuestionUnit {
	unit := QuestionUnit{
		Number:        len(s.Questions) + 1,
		Category:      s.Pending.Category,
		Question:      s.Pending.Text,
		Answer:        answer,
		Score:         ev.Score,
		Justification: ev.Justification,
		Timestamp:     time.Now(),
	}
	s.Questions = append(s.Questions, unit)
	s.Pending = nil

	rollup := Aggregate(s.Questions)
	s.TotalScore = rollup.TotalScore
	s.AverageScore = rollup.AverageScore

	s.advance()
	return unit
}

// discard drops the pending unit after a scoring failure. The category
// slot stays consumed so the session still terminates within ten
// attempts even when scoring keeps failing.
func (s *Session) discard() {
	s.Pending = nil
	s.Discarded++
	s.advance()
}

func (s *Session) advance() {
	if s.Quota.Exhausted() {
		s.State = StateCompleted
		return
	}
	s.State = StateAwaitingQuestion
}

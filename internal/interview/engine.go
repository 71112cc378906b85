package interview

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
)

// Evaluation is the scoring outcome for one answer.
type Evaluation struct {
	Score         int    `json:"score"`
	Justification string `json:"justification"`
	Category      string `json:"category"`
}

// QuestionSource produces one interview question for a category, given
// the candidate's extracted skills and projects and everything already
// asked.
type QuestionSource interface {
	Generate(ctx context.Context, skills map[string][]string, projects []string, asked []string, category Category) (string, error)
}

// AnswerScorer evaluates an answer against its question. A failure
// means the model response was unavailable or unparseable; the engine
// then discards the unit.
type AnswerScorer interface {
	Analyze(ctx context.Context, answer, question string) (Evaluation, error)
}

// Recorder durably persists a finalized unit. Failures are reported but
// never roll back in-memory session state.
type Recorder interface {
	Commit(ctx context.Context, s *Session, unit QuestionUnit) error
}

var (
	// ErrSessionCompleted is returned for any trigger on a finished session.
	ErrSessionCompleted = errors.New("interview session is already completed")
	// ErrNoPendingQuestion is returned when an answer arrives with no
	// outstanding question.
	ErrNoPendingQuestion = errors.New("no pending question to answer")
	// ErrEmptyAnswer rejects blank answers; the pending question stays put.
	ErrEmptyAnswer = errors.New("answer is empty")
	// ErrAnswerDiscarded means scoring failed and the unit was dropped.
	ErrAnswerDiscarded = errors.New("answer could not be analyzed")
	// ErrNoQuestionAvailable means both the AI generator and the template
	// fallback came up empty.
	ErrNoQuestionAvailable = errors.New("no question available")
)

// maxGenerateAttempts bounds how often the AI generator is retried for
// one slot before falling back to templates.
const maxGenerateAttempts = 5

// Engine drives a session through its state machine. It owns all state
// mutation; the adapters it calls are side-effect-only.
type Engine struct {
	source   QuestionSource
	scorer   AnswerScorer
	recorder Recorder
}

func NewEngine(source QuestionSource, scorer AnswerScorer, recorder Recorder) *Engine {
	return &Engine{source: source, scorer: scorer, recorder: recorder}
}

// NextQuestion moves the session to AwaitingAnswer with a fresh pending
// question. Calling it while a question is already pending re-proposes
// for the same reserved slot without consuming quota again.
func (e *Engine) NextQuestion(ctx context.Context, s *Session) (*PendingQuestion, error) {
	if s.Completed() {
		return nil, ErrSessionCompleted
	}

	var category Category
	if s.Pending != nil {
		category = s.Pending.Category
	} else {
		next, ok := s.Quota.NextCategory()
		if !ok {
			s.State = StateCompleted
			return nil, ErrSessionCompleted
		}
		category = next
		s.State = StateAwaitingQuestion
	}

	text, err := e.generate(ctx, s, category)
	if err != nil {
		return nil, err
	}

	s.propose(text, category)
	return s.Pending, nil
}

// generate tries the AI source first, requiring a question that is not
// a normalized duplicate of anything already asked, then falls back to
// templates and generic fillers.
func (e *Engine) generate(ctx context.Context, s *Session, category Category) (string, error) {
	asked := make(map[string]struct{}, len(s.Asked))
	for _, q := range s.Asked {
		asked[Normalize(q)] = struct{}{}
	}

	if e.source != nil {
		for attempt := 1; attempt <= maxGenerateAttempts; attempt++ {
			text, err := e.source.Generate(ctx, s.Skills, s.Projects, s.Asked, category)
			if err != nil {
				log.Warn().Err(err).Str("category", string(category)).Int("attempt", attempt).
					Msg("AI question generation failed, will fall back to templates")
				break
			}
			text = strings.TrimSpace(text)
			if text == "" {
				continue
			}
			if _, seen := asked[Normalize(text)]; seen {
				log.Debug().Str("category", string(category)).Int("attempt", attempt).
					Msg("AI generated a duplicate question, retrying")
				continue
			}
			return text, nil
		}
	}

	if text, ok := TemplateQuestion(s.Skills, s.Projects, asked); ok {
		return text, nil
	}
	return "", ErrNoQuestionAvailable
}

// SubmitResult reports what happened to one submitted answer.
type SubmitResult struct {
	Unit      QuestionUnit
	Persisted bool
	Completed bool
}

// SubmitAnswer scores the pending question's answer, finalizes or
// discards the unit, and triggers persistence. The returned error is
// ErrAnswerDiscarded when scoring failed; persistence failures do not
// produce an error, only Persisted=false.
func (e *Engine) SubmitAnswer(ctx context.Context, s *Session, answer string) (*SubmitResult, error) {
	if s.Completed() {
		return nil, ErrSessionCompleted
	}
	if s.Pending == nil {
		return nil, ErrNoPendingQuestion
	}
	if strings.TrimSpace(answer) == "" {
		return nil, ErrEmptyAnswer
	}

	s.State = StateScoring

	ev, err := e.scorer.Analyze(ctx, answer, s.Pending.Text)
	if err != nil || ev.Score < 1 || ev.Score > 10 {
		if err != nil {
			log.Warn().Err(err).Str("session", s.ID).Msg("Scoring failed, discarding question unit")
		} else {
			log.Warn().Int("score", ev.Score).Str("session", s.ID).Msg("Score out of range, discarding question unit")
		}
		s.discard()
		return nil, ErrAnswerDiscarded
	}

	unit := s.finalize(answer, ev)

	result := &SubmitResult{Unit: unit, Persisted: true, Completed: s.Completed()}
	if e.recorder != nil {
		if err := e.recorder.Commit(ctx, s, unit); err != nil {
			// Durability is best-effort; the in-memory record stands.
			log.Warn().Err(err).Str("session", s.ID).Int("question", unit.Number).
				Msg("Failed to persist question unit, session continues in memory")
			result.Persisted = false
		}
	}
	return result, nil
}

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/celestiq/interviewer/internal/interview"
	"github.com/celestiq/interviewer/internal/store"
)

// PersistenceWriter is the interview.Recorder backed by the document
// store. Each commit performs three sub-writes in order: the question
// unit, the session summary, and the candidate profile touch. A failed
// unit write aborts the commit; failures after that leave a partial
// record that the read path repairs by recomputing from raw units.
type PersistenceWriter struct {
	store store.Store
}

func NewPersistenceWriter(st store.Store) *PersistenceWriter {
	return &PersistenceWriter{store: st}
}

var _ interview.Recorder = (*PersistenceWriter)(nil)

func (w *PersistenceWriter) Commit(ctx context.Context, s *interview.Session, unit interview.QuestionUnit) error {
	unitPath := []string{"interviews", s.CandidateID, s.ID, "questions", fmt.Sprintf("q%d", unit.Number)}
	unitDoc := store.Doc{
		"category":      string(unit.Category),
		"question":      unit.Question,
		"answer":        unit.Answer,
		"score":         unit.Score,
		"justification": unit.Justification,
	}
	if err := w.store.Write(ctx, unitPath, unitDoc); err != nil {
		return fmt.Errorf("write question unit: %w", err)
	}

	var partial []error

	summaryPath := []string{"interviews", s.CandidateID, s.ID}
	summary := store.Doc{
		"user_email":      s.CandidateEmail,
		"total_score":     s.TotalScore,
		"total_questions": len(s.Questions),
		"average_score":   s.AverageScore,
		"interview_date":  s.StartedAt.UnixMilli(),
		"status":          s.Status(),
	}
	if err := w.store.Update(ctx, summaryPath, summary); err != nil {
		partial = append(partial, fmt.Errorf("update session summary: %w", err))
	}

	profile := store.Doc{
		"last_interview": unit.Timestamp.UnixMilli(),
	}
	if s.Completed() {
		count, err := w.profileInterviewCount(ctx, s.CandidateID)
		if err != nil {
			partial = append(partial, err)
		} else {
			profile["total_interviews"] = count + 1
		}
	}
	if err := w.store.Update(ctx, []string{"users", s.CandidateID}, profile); err != nil {
		partial = append(partial, fmt.Errorf("touch candidate profile: %w", err))
	}

	if len(partial) > 0 {
		err := errors.Join(partial...)
		log.Warn().Err(err).Str("session", s.ID).Msg("Partial persistence, summary will be recomputed on read")
		return err
	}
	return nil
}

func (w *PersistenceWriter) profileInterviewCount(ctx context.Context, candidateID string) (int, error) {
	doc, err := w.store.Read(ctx, []string{"users", candidateID})
	if errors.Is(err, store.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read candidate profile: %w", err)
	}
	switch n := doc["total_interviews"].(type) {
	case float64:
		return int(n), nil
	case int:
		return n, nil
	default:
		return 0, nil
	}
}

package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celestiq/interviewer/internal/interview"
	"github.com/celestiq/interviewer/internal/store"
)

// fakeStore is an in-memory store.Store with injectable failures.
type fakeStore struct {
	docs      map[string]store.Doc
	failWrite map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: make(map[string]store.Doc), failWrite: make(map[string]error)}
}

func (f *fakeStore) Write(_ context.Context, path []string, doc store.Doc) error {
	key := store.Join(path)
	if err, ok := f.failWrite[key]; ok {
		return err
	}
	copied := make(store.Doc, len(doc))
	for k, v := range doc {
		copied[k] = v
	}
	f.docs[key] = copied
	return nil
}

func (f *fakeStore) Read(_ context.Context, path []string) (store.Doc, error) {
	doc, ok := f.docs[store.Join(path)]
	if !ok {
		return nil, store.ErrNotFound
	}
	return doc, nil
}

func (f *fakeStore) Update(ctx context.Context, path []string, partial store.Doc) error {
	existing, err := f.Read(ctx, path)
	if err != nil {
		existing = store.Doc{}
	}
	merged := make(store.Doc, len(existing)+len(partial))
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range partial {
		merged[k] = v
	}
	return f.Write(ctx, path, merged)
}

func (f *fakeStore) List(_ context.Context, prefix []string) (map[string]store.Doc, error) {
	out := make(map[string]store.Doc)
	p := store.Join(prefix) + "/"
	for key, doc := range f.docs {
		if len(key) > len(p) && key[:len(p)] == p {
			out[key] = doc
		}
	}
	return out, nil
}

func persistedSession(t *testing.T) (*interview.Session, interview.QuestionUnit) {
	t.Helper()
	s := interview.NewSession("cand-1", "jane@example.com", nil, nil)
	s.Questions = []interview.QuestionUnit{{
		Number:        1,
		Category:      interview.CategoryTechnicalSkills,
		Question:      "Tell me about a Go project you built.",
		Answer:        "I built a job scheduler.",
		Score:         7,
		Justification: "Concrete example.",
		Timestamp:     time.Now(),
	}}
	s.TotalScore = 7
	s.AverageScore = 7.0
	return s, s.Questions[0]
}

func TestPersistenceWriterFullCommit(t *testing.T) {
	fs := newFakeStore()
	w := NewPersistenceWriter(fs)
	s, unit := persistedSession(t)

	require.NoError(t, w.Commit(context.Background(), s, unit))

	unitDoc := fs.docs["interviews/cand-1/"+s.ID+"/questions/q1"]
	require.NotNil(t, unitDoc)
	assert.Equal(t, "technical_skills", unitDoc["category"])
	assert.Equal(t, 7, unitDoc["score"])

	summary := fs.docs["interviews/cand-1/"+s.ID]
	require.NotNil(t, summary)
	assert.Equal(t, "jane@example.com", summary["user_email"])
	assert.Equal(t, 7, summary["total_score"])
	assert.Equal(t, 1, summary["total_questions"])
	assert.Equal(t, 7.0, summary["average_score"])
	assert.Equal(t, "in_progress", summary["status"])
	assert.Equal(t, s.StartedAt.UnixMilli(), summary["interview_date"])

	profile := fs.docs["users/cand-1"]
	require.NotNil(t, profile)
	assert.Equal(t, unit.Timestamp.UnixMilli(), profile["last_interview"])
	_, hasCount := profile["total_interviews"]
	assert.False(t, hasCount, "count only increments once the session completes")
}

func TestPersistenceWriterUnitWriteFailureAborts(t *testing.T) {
	fs := newFakeStore()
	w := NewPersistenceWriter(fs)
	s, unit := persistedSession(t)
	fs.failWrite["interviews/cand-1/"+s.ID+"/questions/q1"] = fmt.Errorf("disk full")

	err := w.Commit(context.Background(), s, unit)
	require.Error(t, err)
	assert.Empty(t, fs.docs, "nothing may be written when the unit write fails")
}

func TestPersistenceWriterSummaryFailureIsPartial(t *testing.T) {
	fs := newFakeStore()
	w := NewPersistenceWriter(fs)
	s, unit := persistedSession(t)
	fs.failWrite["interviews/cand-1/"+s.ID] = fmt.Errorf("transient")

	err := w.Commit(context.Background(), s, unit)
	require.Error(t, err)

	assert.NotNil(t, fs.docs["interviews/cand-1/"+s.ID+"/questions/q1"], "unit survives")
	assert.NotNil(t, fs.docs["users/cand-1"], "profile touch still attempted")
}

func TestPersistenceWriterCompletionIncrementsCount(t *testing.T) {
	fs := newFakeStore()
	fs.docs["users/cand-1"] = store.Doc{"total_interviews": float64(2)}
	w := NewPersistenceWriter(fs)
	s, unit := persistedSession(t)
	s.State = interview.StateCompleted

	require.NoError(t, w.Commit(context.Background(), s, unit))

	profile := fs.docs["users/cand-1"]
	assert.Equal(t, 3, profile["total_interviews"])
	assert.Equal(t, "completed", fs.docs["interviews/cand-1/"+s.ID]["status"])
}

package store

import (
	"context"
	"testing"

	"github.com/celestiq/interviewer/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Document{}))
	t.Cleanup(func() {
		db.Exec("DELETE FROM documents")
	})
	return NewDocumentStore(db)
}

func TestWriteAndRead(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	path := []string{"interviews", "cand-1", "sess-1", "questions", "q1"}

	err := s.Write(ctx, path, Doc{"question": "Tell me about Go.", "score": float64(8)})
	require.NoError(t, err)

	doc, err := s.Read(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "Tell me about Go.", doc["question"])
	assert.Equal(t, float64(8), doc["score"])
}

func TestWriteOverwrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	path := []string{"users", "cand-1"}

	require.NoError(t, s.Write(ctx, path, Doc{"email": "a@example.com", "total_interviews": float64(1)}))
	require.NoError(t, s.Write(ctx, path, Doc{"email": "a@example.com"}))

	doc, err := s.Read(ctx, path)
	require.NoError(t, err)
	_, ok := doc["total_interviews"]
	assert.False(t, ok, "Write must replace the whole document")
}

func TestReadMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Read(context.Background(), []string{"interviews", "nobody"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEmptyPathRejected(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.Write(ctx, nil, Doc{}), ErrEmptyPath)
	_, err := s.Read(ctx, nil)
	assert.ErrorIs(t, err, ErrEmptyPath)
	assert.ErrorIs(t, s.Update(ctx, nil, Doc{}), ErrEmptyPath)
}

func TestUpdateMergesFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	path := []string{"users", "cand-2"}

	require.NoError(t, s.Write(ctx, path, Doc{"email": "b@example.com", "total_interviews": float64(2)}))
	require.NoError(t, s.Update(ctx, path, Doc{"total_interviews": float64(3), "last_interview": float64(1700000000000)}))

	doc, err := s.Read(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "b@example.com", doc["email"])
	assert.Equal(t, float64(3), doc["total_interviews"])
	assert.Equal(t, float64(1700000000000), doc["last_interview"])
}

func TestUpdateCreatesWhenMissing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	path := []string{"users", "cand-3"}

	require.NoError(t, s.Update(ctx, path, Doc{"email": "c@example.com"}))

	doc, err := s.Read(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "c@example.com", doc["email"])
}

func TestListSubtree(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, []string{"interviews", "c1", "s1", "questions", "q1"}, Doc{"score": float64(7)}))
	require.NoError(t, s.Write(ctx, []string{"interviews", "c1", "s1", "questions", "q2"}, Doc{"score": float64(9)}))
	require.NoError(t, s.Write(ctx, []string{"interviews", "c2", "s9", "questions", "q1"}, Doc{"score": float64(4)}))

	docs, err := s.List(ctx, []string{"interviews", "c1", "s1", "questions"})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Contains(t, docs, "interviews/c1/s1/questions/q1")
	assert.Contains(t, docs, "interviews/c1/s1/questions/q2")
}

package service

import (
	"bytes"
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/celestiq/interviewer/internal/interview"
	"github.com/celestiq/interviewer/internal/store"
)

func seedInterview(fs *fakeStore, candidate, session string, scores map[string]int) {
	n := 1
	total := 0
	for category, score := range scores {
		fs.docs["interviews/"+candidate+"/"+session+"/questions/q"+strconv.Itoa(n)] = store.Doc{
			"category":      category,
			"question":      "Describe your experience with " + category + ".",
			"answer":        "A detailed answer.",
			"score":         float64(score),
			"justification": "ok",
		}
		total += score
		n++
	}
	fs.docs["interviews/"+candidate+"/"+session] = store.Doc{
		"user_email":      candidate + "@example.com",
		"total_score":     float64(total),
		"total_questions": float64(n - 1),
		"average_score":   0.0, // deliberately wrong, the read path must recompute
		"interview_date":  float64(1756400000000),
		"status":          "completed",
	}
}

func TestHRServiceListRecomputesAggregates(t *testing.T) {
	fs := newFakeStore()
	seedInterview(fs, "cand-1", "sess-1", map[string]int{"technical_skills": 8, "communication": 6})
	svc := NewHRService(fs)

	results, err := svc.ListResults(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, "cand-1", r.CandidateID)
	assert.Equal(t, "cand-1@example.com", r.UserEmail)
	assert.Equal(t, "completed", r.Status)
	assert.Equal(t, 14, r.TotalScore)
	assert.Equal(t, 7.0, r.AverageScore, "stored average was wrong and must be recomputed")
	assert.Equal(t, 8.0, r.Breakdown[interview.CategoryTechnicalSkills])
	assert.Equal(t, interview.CategoryTechnicalSkills, r.Strongest)
	assert.Equal(t, interview.CategoryCommunication, r.Weakest)
	require.Len(t, r.Questions, 2)
	assert.Equal(t, 1, r.Questions[0].Number)
}

func TestHRServiceListHealsMissingSummary(t *testing.T) {
	fs := newFakeStore()
	fs.docs["interviews/cand-2/sess-9/questions/q1"] = store.Doc{
		"category": "leadership", "question": "q", "answer": "a",
		"score": float64(9), "justification": "strong",
	}
	svc := NewHRService(fs)

	results, err := svc.ListResults(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "in_progress", results[0].Status)
	assert.Equal(t, 9, results[0].TotalScore)
}

func TestHRServiceCategoryAnalytics(t *testing.T) {
	fs := newFakeStore()
	seedInterview(fs, "cand-1", "sess-1", map[string]int{"technical_skills": 8})
	seedInterview(fs, "cand-2", "sess-2", map[string]int{"technical_skills": 4, "leadership": 10})
	svc := NewHRService(fs)

	stats, err := svc.CategoryAnalytics(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, len(interview.Categories))

	byCategory := make(map[interview.Category]CategoryStat)
	for _, s := range stats {
		byCategory[s.Category] = s
	}
	assert.Equal(t, 2, byCategory[interview.CategoryTechnicalSkills].Answered)
	assert.Equal(t, 6.0, byCategory[interview.CategoryTechnicalSkills].AverageScore)
	assert.Equal(t, 10.0, byCategory[interview.CategoryLeadership].AverageScore)
	assert.Equal(t, 0, byCategory[interview.CategoryCommunication].Answered)
}

func TestHRServiceExportResults(t *testing.T) {
	fs := newFakeStore()
	seedInterview(fs, "cand-1", "sess-1", map[string]int{"experience": 7})
	svc := NewHRService(fs)

	data, err := svc.ExportResults(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	email, err := f.GetCellValue("Interviews", "B2")
	require.NoError(t, err)
	assert.Equal(t, "cand-1@example.com", email)

	question, err := f.GetCellValue("Answers", "E2")
	require.NoError(t, err)
	assert.Contains(t, question, "experience")
}

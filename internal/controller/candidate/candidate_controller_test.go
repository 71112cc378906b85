package candidate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celestiq/interviewer/internal/interview"
	"github.com/celestiq/interviewer/internal/service"
)

type fixedQuestions struct{ n int }

func (f *fixedQuestions) Generate(_ context.Context, _ map[string][]string, _ []string, _ []string, category interview.Category) (string, error) {
	f.n++
	return fmt.Sprintf("Question %d about %s, at some length?", f.n, category), nil
}

type fixedScorer struct{}

func (fixedScorer) Analyze(_ context.Context, _, _ string) (interview.Evaluation, error) {
	return interview.Evaluation{Score: 7, Justification: "fine", Category: "general"}, nil
}

type nullRecorder struct{}

func (nullRecorder) Write(_ context.Context, _ []string, _ map[string]any) error  { return nil }
func (nullRecorder) Read(_ context.Context, _ []string) (map[string]any, error)   { return nil, nil }
func (nullRecorder) Update(_ context.Context, _ []string, _ map[string]any) error { return nil }
func (nullRecorder) List(_ context.Context, _ []string) (map[string]map[string]any, error) {
	return nil, nil
}

type noVoice struct{}

func (noVoice) Speak(_ context.Context, _ string) ([]byte, error) {
	return nil, fmt.Errorf("no tts in tests")
}
func (noVoice) Transcribe(_ context.Context, _ []byte, _ string) (string, error) {
	return "", fmt.Errorf("no stt in tests")
}
func (noVoice) Close() error { return nil }

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	profiles := service.NewProfileRegistry()
	is := service.NewInterviewService(&fixedQuestions{}, fixedScorer{}, service.NewPersistenceWriter(nullRecorder{}))
	ctrl := NewCandidateController(service.NewResumeService(), is, noVoice{}, profiles)

	r := gin.New()
	r.POST("/candidates/resume", ctrl.UploadResume)
	r.POST("/interviews", ctrl.StartInterview)
	r.GET("/interviews/:session_id", ctrl.GetSummary)
	r.GET("/interviews/:session_id/question", ctrl.NextQuestion)
	r.POST("/interviews/:session_id/answer", ctrl.SubmitAnswer)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUploadResumeAndStartInterview(t *testing.T) {
	r := newTestRouter(t)

	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	fw, err := mw.CreateFormFile("file", "resume.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("Skilled in Python and Docker.\nDeveloped a full inventory tracking system for a campus store."))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/candidates/resume", &form)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var upload struct {
		CandidateID string              `json:"candidate_id"`
		Skills      map[string][]string `json:"skills"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &upload))
	assert.NotEmpty(t, upload.CandidateID)
	assert.Contains(t, upload.Skills["programming_languages"], "python")

	w = doJSON(t, r, http.MethodPost, "/interviews", gin.H{
		"candidate_id": upload.CandidateID,
		"email":        "jane@example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// A second session for the same candidate conflicts.
	w = doJSON(t, r, http.MethodPost, "/interviews", gin.H{
		"candidate_id": upload.CandidateID,
		"email":        "jane@example.com",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestQuestionAnswerRoundTrip(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/interviews", gin.H{
		"candidate_id": "cand-1",
		"email":        "jane@example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var started struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &started))

	w = doJSON(t, r, http.MethodGet, "/interviews/"+started.SessionID+"/question", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var question struct {
		Category string `json:"category"`
		Question string `json:"question"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &question))
	assert.Equal(t, "technical_skills", question.Category)
	assert.NotEmpty(t, question.Question)

	// Answering before a question exists was already consumed above; now submit.
	w = doJSON(t, r, http.MethodPost, "/interviews/"+started.SessionID+"/answer", gin.H{
		"answer": "I would break the problem down and iterate.",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var answer struct {
		Score        int     `json:"score"`
		AverageScore float64 `json:"average_score"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &answer))
	assert.Equal(t, 7, answer.Score)
	assert.Equal(t, 7.0, answer.AverageScore)

	w = doJSON(t, r, http.MethodGet, "/interviews/"+started.SessionID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summary struct {
		Status    string `json:"status"`
		Questions []struct {
			Number int `json:"question_number"`
		} `json:"questions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, "in_progress", summary.Status)
	require.Len(t, summary.Questions, 1)
	assert.Equal(t, 1, summary.Questions[0].Number)
}

func TestSubmitAnswerErrors(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/interviews/unknown/answer", gin.H{"answer": "hi"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPost, "/interviews", gin.H{"candidate_id": "cand-2", "email": "a@b.com"})
	require.Equal(t, http.StatusCreated, w.Code)
	var started struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &started))

	// No pending question yet.
	w = doJSON(t, r, http.MethodPost, "/interviews/"+started.SessionID+"/answer", gin.H{"answer": "hi"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

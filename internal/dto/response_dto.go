package dto

import "time"

type ResumeUploadResponse struct {
	CandidateID string              `json:"candidate_id"`
	Skills      map[string][]string `json:"skills"`
	Projects    []string            `json:"projects"`
}

type StartInterviewResponse struct {
	SessionID   string    `json:"session_id"`
	CandidateID string    `json:"candidate_id"`
	State       string    `json:"state"`
	StartedAt   time.Time `json:"started_at"`
}

type QuestionResponse struct {
	SessionID      string `json:"session_id"`
	QuestionNumber int    `json:"question_number"`
	Category       string `json:"category"`
	Question       string `json:"question"`
}

type AnswerResponse struct {
	QuestionNumber int     `json:"question_number"`
	Category       string  `json:"category"`
	Question       string  `json:"question"`
	Answer         string  `json:"answer"`
	Score          int     `json:"score"`
	Justification  string  `json:"justification"`
	TotalScore     int     `json:"total_score"`
	AverageScore   float64 `json:"average_score"`
	Completed      bool    `json:"completed"`
	Persisted      bool    `json:"persisted"`
}

type QuestionUnitResponse struct {
	Number        int    `json:"question_number"`
	Category      string `json:"category"`
	Question      string `json:"question"`
	Answer        string `json:"answer"`
	Score         int    `json:"score"`
	Justification string `json:"justification"`
}

type SessionSummaryResponse struct {
	SessionID      string                 `json:"session_id"`
	CandidateID    string                 `json:"candidate_id"`
	CandidateEmail string                 `json:"candidate_email"`
	State          string                 `json:"state"`
	Status         string                 `json:"status"`
	TotalScore     int                    `json:"total_score"`
	AverageScore   float64                `json:"average_score"`
	Discarded      int                    `json:"discarded"`
	StartedAt      time.Time              `json:"started_at"`
	Questions      []QuestionUnitResponse `json:"questions"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

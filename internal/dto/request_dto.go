package dto

// StartInterviewRequest opens a session for a candidate whose resume
// was already uploaded. The candidate_id comes from the upload response.
type StartInterviewRequest struct {
	CandidateID string `json:"candidate_id" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
}

type SubmitAnswerRequest struct {
	Answer string `json:"answer" binding:"required"`
}

type SpeakRequest struct {
	Text string `json:"text" binding:"required"`
}

package candidate

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"

	"github.com/celestiq/interviewer/internal/dto"
	"github.com/celestiq/interviewer/internal/interview"
	"github.com/celestiq/interviewer/internal/service"
)

// maxResumeBytes caps resume uploads at 10 MiB.
const maxResumeBytes = 10 << 20

type CandidateController struct {
	resumeService    service.ResumeService
	interviewService service.InterviewService
	voiceService     service.VoiceService
	profiles         *service.ProfileRegistry
}

func NewCandidateController(rs service.ResumeService, is service.InterviewService, vs service.VoiceService, profiles *service.ProfileRegistry) *CandidateController {
	return &CandidateController{
		resumeService:    rs,
		interviewService: is,
		voiceService:     vs,
		profiles:         profiles,
	}
}

// UploadResume godoc
// @Summary Upload a candidate resume
// @Description Parses a PDF or TXT resume into grouped skills and project lines, and issues a candidate id for starting an interview.
// @Tags Candidate
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Resume file (.pdf or .txt)"
// @Success 200 {object} dto.ResumeUploadResponse
// @Failure 400 {object} dto.ErrorResponse "Missing file or unsupported format"
// @Router /candidates/resume [post]
func (c *CandidateController) UploadResume(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Resume file is required"})
		return
	}
	if fileHeader.Size > maxResumeBytes {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Resume file is too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to open uploaded file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to read uploaded file"})
		return
	}

	profile, err := c.resumeService.Parse(data, fileHeader.Filename)
	if err != nil {
		log.Warn().Err(err).Str("filename", fileHeader.Filename).Msg("Resume parsing failed")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	candidateID := uuid.NewString()
	c.profiles.Put(candidateID, profile)

	ctx.JSON(http.StatusOK, dto.ResumeUploadResponse{
		CandidateID: candidateID,
		Skills:      profile.Skills,
		Projects:    profile.Projects,
	})
}

// StartInterview godoc
// @Summary Start an interview session
// @Description Opens a new session for the candidate. Only one session per candidate may be active at a time.
// @Tags Candidate
// @Accept json
// @Produce json
// @Param body body dto.StartInterviewRequest true "Candidate id from resume upload plus contact email"
// @Success 201 {object} dto.StartInterviewResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 409 {object} dto.ErrorResponse "Candidate already has an active session"
// @Router /interviews [post]
func (c *CandidateController) StartInterview(ctx *gin.Context) {
	var req dto.StartInterviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	profile, ok := c.profiles.Get(req.CandidateID)
	if !ok {
		log.Info().Str("candidate", req.CandidateID).Msg("Starting interview without an uploaded resume")
	}

	session, err := c.interviewService.Start(ctx.Request.Context(), req.CandidateID, req.Email, profile)
	if err != nil {
		if errors.Is(err, service.ErrActiveSessionExists) {
			ctx.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to start interview"})
		return
	}

	ctx.JSON(http.StatusCreated, dto.StartInterviewResponse{
		SessionID:   session.ID,
		CandidateID: session.CandidateID,
		State:       string(session.State),
		StartedAt:   session.StartedAt,
	})
}

// NextQuestion godoc
// @Summary Get the next interview question
// @Description Proposes the next question for the session's current category. Calling again before answering re-proposes for the same slot.
// @Tags Candidate
// @Produce json
// @Param session_id path string true "Interview session ID"
// @Success 200 {object} dto.QuestionResponse
// @Failure 404 {object} dto.ErrorResponse "Unknown session"
// @Failure 409 {object} dto.ErrorResponse "Session already completed"
// @Failure 503 {object} dto.ErrorResponse "No question could be produced"
// @Router /interviews/{session_id}/question [get]
func (c *CandidateController) NextQuestion(ctx *gin.Context) {
	sessionID := ctx.Param("session_id")

	session, pending, err := c.interviewService.NextQuestion(ctx.Request.Context(), sessionID)
	if err != nil {
		c.writeSessionError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.QuestionResponse{
		SessionID:      sessionID,
		QuestionNumber: len(session.Questions) + 1,
		Category:       string(pending.Category),
		Question:       pending.Text,
	})
}

// QuestionAudio godoc
// @Summary Get the pending question as speech
// @Description Synthesizes the currently pending question as MP3 audio.
// @Tags Candidate
// @Produce audio/mpeg
// @Param session_id path string true "Interview session ID"
// @Success 200 {file} binary
// @Failure 404 {object} dto.ErrorResponse "Unknown session or no pending question"
// @Failure 503 {object} dto.ErrorResponse "Speech synthesis unavailable"
// @Router /interviews/{session_id}/question/audio [get]
func (c *CandidateController) QuestionAudio(ctx *gin.Context) {
	session, err := c.interviewService.Get(ctx.Param("session_id"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
		return
	}
	if session.Pending == nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "No pending question to synthesize"})
		return
	}

	audio, err := c.voiceService.Speak(ctx.Request.Context(), session.Pending.Text)
	if err != nil {
		log.Warn().Err(err).Str("session", session.ID).Msg("Question synthesis failed")
		ctx.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "Speech synthesis is unavailable"})
		return
	}
	ctx.Data(http.StatusOK, "audio/mpeg", audio)
}

// Speak godoc
// @Summary Synthesize arbitrary prompt text as speech
// @Description Converts short prompt text (welcome messages, instructions) to MP3 audio.
// @Tags Candidate
// @Accept json
// @Produce audio/mpeg
// @Param body body dto.SpeakRequest true "Text to synthesize"
// @Success 200 {file} binary
// @Failure 400 {object} dto.ErrorResponse "Missing text"
// @Failure 503 {object} dto.ErrorResponse "Speech synthesis unavailable"
// @Router /speech [post]
func (c *CandidateController) Speak(ctx *gin.Context) {
	var req dto.SpeakRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	audio, err := c.voiceService.Speak(ctx.Request.Context(), req.Text)
	if err != nil {
		log.Warn().Err(err).Msg("Prompt synthesis failed")
		ctx.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "Speech synthesis is unavailable"})
		return
	}
	ctx.Data(http.StatusOK, "audio/mpeg", audio)
}

// SubmitAnswer godoc
// @Summary Submit a typed answer
// @Description Scores the answer to the pending question, appends the unit and persists it. A scoring failure discards the unit but still consumes the slot.
// @Tags Candidate
// @Accept json
// @Produce json
// @Param session_id path string true "Interview session ID"
// @Param body body dto.SubmitAnswerRequest true "The candidate's answer"
// @Success 200 {object} dto.AnswerResponse
// @Failure 400 {object} dto.ErrorResponse "Empty answer or no pending question"
// @Failure 404 {object} dto.ErrorResponse "Unknown session"
// @Failure 409 {object} dto.ErrorResponse "Session already completed"
// @Failure 422 {object} dto.ErrorResponse "Answer could not be analyzed; the attempt was discarded"
// @Router /interviews/{session_id}/answer [post]
func (c *CandidateController) SubmitAnswer(ctx *gin.Context) {
	var req dto.SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	c.submit(ctx, ctx.Param("session_id"), req.Answer)
}

// SubmitAudioAnswer godoc
// @Summary Submit a spoken answer
// @Description Transcribes the uploaded audio clip and scores the transcript like a typed answer.
// @Tags Candidate
// @Accept multipart/form-data
// @Produce json
// @Param session_id path string true "Interview session ID"
// @Param audio formData file true "Answer recording (wav, mp3, ogg, webm)"
// @Success 200 {object} dto.AnswerResponse
// @Failure 400 {object} dto.ErrorResponse "Missing audio, empty transcript, or no pending question"
// @Failure 404 {object} dto.ErrorResponse "Unknown session"
// @Failure 409 {object} dto.ErrorResponse "Session already completed"
// @Failure 422 {object} dto.ErrorResponse "Answer could not be analyzed; the attempt was discarded"
// @Failure 503 {object} dto.ErrorResponse "Transcription unavailable"
// @Router /interviews/{session_id}/answer/audio [post]
func (c *CandidateController) SubmitAudioAnswer(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("audio")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Audio file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to open audio file"})
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to read audio file"})
		return
	}

	transcript, err := c.voiceService.Transcribe(ctx.Request.Context(), audio, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		log.Warn().Err(err).Msg("Answer transcription failed")
		ctx.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "Transcription is unavailable"})
		return
	}

	c.submit(ctx, ctx.Param("session_id"), transcript)
}

func (c *CandidateController) submit(ctx *gin.Context, sessionID, answer string) {
	session, result, err := c.interviewService.SubmitAnswer(ctx.Request.Context(), sessionID, answer)
	if err != nil {
		c.writeSessionError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.AnswerResponse{
		QuestionNumber: result.Unit.Number,
		Category:       string(result.Unit.Category),
		Question:       result.Unit.Question,
		Answer:         result.Unit.Answer,
		Score:          result.Unit.Score,
		Justification:  result.Unit.Justification,
		TotalScore:     session.TotalScore,
		AverageScore:   session.AverageScore,
		Completed:      result.Completed,
		Persisted:      result.Persisted,
	})
}

// GetSummary godoc
// @Summary Get the session summary
// @Description Returns the session's scored questions plus running totals, whether finished or still in progress.
// @Tags Candidate
// @Produce json
// @Param session_id path string true "Interview session ID"
// @Success 200 {object} dto.SessionSummaryResponse
// @Failure 404 {object} dto.ErrorResponse "Unknown session"
// @Router /interviews/{session_id} [get]
func (c *CandidateController) GetSummary(ctx *gin.Context) {
	session, err := c.interviewService.Get(ctx.Param("session_id"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
		return
	}

	var units []dto.QuestionUnitResponse
	if err := copier.Copy(&units, session.Questions); err != nil {
		log.Error().Err(err).Str("session", session.ID).Msg("Failed to map question units")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to build summary"})
		return
	}

	ctx.JSON(http.StatusOK, dto.SessionSummaryResponse{
		SessionID:      session.ID,
		CandidateID:    session.CandidateID,
		CandidateEmail: session.CandidateEmail,
		State:          string(session.State),
		Status:         session.Status(),
		TotalScore:     session.TotalScore,
		AverageScore:   session.AverageScore,
		Discarded:      session.Discarded,
		StartedAt:      session.StartedAt,
		Questions:      units,
	})
}

func (c *CandidateController) writeSessionError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, interview.ErrSessionCompleted):
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, interview.ErrEmptyAnswer), errors.Is(err, interview.ErrNoPendingQuestion):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, interview.ErrAnswerDiscarded):
		ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, interview.ErrNoQuestionAvailable):
		ctx.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: err.Error()})
	default:
		log.Error().Err(err).Msg("Interview operation failed")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
	}
}

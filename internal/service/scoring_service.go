package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/celestiq/interviewer/config"
	"github.com/celestiq/interviewer/internal/interview"
	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// ErrUnparseableScore means the model's reply did not contain a usable
// score; the interview engine discards the question unit.
var ErrUnparseableScore = fmt.Errorf("scoring response is unparseable")

// ScoringService evaluates one answer against its question. It
// satisfies interview.AnswerScorer. The contract is a single 1-10
// score with a free-text justification and a category label.
type ScoringService interface {
	Analyze(ctx context.Context, answer, question string) (interview.Evaluation, error)
}

type geminiScoringService struct {
	client *genai.GenerativeModel
	cfg    *config.Config
}

func NewScoringService(cfg *config.Config) (ScoringService, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. ScoringService will be non-functional.")
		return &geminiScoringService{cfg: cfg}, nil
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.Gemini.ScoringModel)
	model.SetTemperature(0.3)
	model.SetMaxOutputTokens(200)
	return &geminiScoringService{client: model, cfg: cfg}, nil
}

func (s *geminiScoringService) Analyze(ctx context.Context, answer, question string) (interview.Evaluation, error) {
	if s.client == nil {
		return interview.Evaluation{}, fmt.Errorf("gemini client not initialized: %w", ErrUnparseableScore)
	}

	prompt := fmt.Sprintf(
		"Question: %s\n"+
			"Candidate's Answer: %s\n"+
			"As an HR interviewer, analyze this answer and provide:\n"+
			"1. A score from 1 to 10\n"+
			"2. A brief justification\n"+
			"3. The category this question falls under (technical_skills, communication, problem_solving, leadership, experience)\n"+
			"Respond in JSON: {\"score\": <score>, \"justification\": \"...\", \"category\": \"...\"}",
		question, answer)

	resp, err := s.client.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Error().Err(err).Msg("Gemini API error during answer scoring")
		return interview.Evaluation{}, fmt.Errorf("gemini scoring failed: %w", err)
	}

	raw := responseText(resp)
	ev, err := parseEvaluation(raw)
	if err != nil {
		log.Warn().Err(err).Str("rawResponse", raw).Msg("Failed to parse scoring response")
		return interview.Evaluation{}, err
	}
	return ev, nil
}

// parseEvaluation decodes the model's JSON reply. Models often wrap the
// object in markdown fences or chatter; everything outside the first
// top-level JSON object is ignored.
func parseEvaluation(raw string) (interview.Evaluation, error) {
	body := extractJSONObject(raw)
	if body == "" {
		return interview.Evaluation{}, fmt.Errorf("no JSON object in response: %w", ErrUnparseableScore)
	}

	var payload struct {
		Score         *int   `json:"score"`
		Justification string `json:"justification"`
		Category      string `json:"category"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return interview.Evaluation{}, fmt.Errorf("invalid scoring JSON: %v: %w", err, ErrUnparseableScore)
	}
	if payload.Score == nil {
		return interview.Evaluation{}, fmt.Errorf("scoring JSON has no score: %w", ErrUnparseableScore)
	}
	if *payload.Score < 1 || *payload.Score > 10 {
		return interview.Evaluation{}, fmt.Errorf("score %d out of range: %w", *payload.Score, ErrUnparseableScore)
	}

	category := strings.TrimSpace(payload.Category)
	if category == "" {
		category = "general"
	}
	return interview.Evaluation{
		Score:         *payload.Score,
		Justification: payload.Justification,
		Category:      category,
	}, nil
}

func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return raw[start : end+1]
}

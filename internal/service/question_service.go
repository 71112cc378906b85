package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/celestiq/interviewer/config"
	"github.com/celestiq/interviewer/internal/interview"
	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// ErrQuestionServiceUnavailable is returned when no Gemini client is
// configured; the interview engine then falls back to templates.
var ErrQuestionServiceUnavailable = fmt.Errorf("question service unavailable")

// QuestionService generates interview questions from resume context.
// It satisfies interview.QuestionSource.
type QuestionService interface {
	Generate(ctx context.Context, skills map[string][]string, projects []string, asked []string, category interview.Category) (string, error)
}

type geminiQuestionService struct {
	client *genai.GenerativeModel
	cfg    *config.Config
}

func NewQuestionService(cfg *config.Config) (QuestionService, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. QuestionService will fall back to template questions.")
		return &geminiQuestionService{cfg: cfg}, nil
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.Gemini.QuestionModel)
	model.SetTemperature(0.8)
	model.SetMaxOutputTokens(120)
	return &geminiQuestionService{client: model, cfg: cfg}, nil
}

func (s *geminiQuestionService) Generate(ctx context.Context, skills map[string][]string, projects []string, asked []string, category interview.Category) (string, error) {
	if s.client == nil {
		return "", ErrQuestionServiceUnavailable
	}

	prompt := buildQuestionPrompt(skills, projects, asked, category)
	resp, err := s.client.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Error().Err(err).Str("category", string(category)).Msg("Gemini API error during question generation")
		return "", fmt.Errorf("gemini question generation failed: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return "", fmt.Errorf("gemini returned no text content")
	}
	return strings.TrimSpace(text), nil
}

func buildQuestionPrompt(skills map[string][]string, projects []string, asked []string, category interview.Category) string {
	var flat []string
	for _, group := range skills {
		flat = append(flat, group...)
	}

	var b strings.Builder
	b.WriteString("You are an HR manager conducting an interview. ")
	b.WriteString("Consider the candidate a fresh graduate with no prior experience. ")
	b.WriteString(fmt.Sprintf("Generate a unique, realistic, simple interview question in the %q category, ", strings.ReplaceAll(string(category), "_", " ")))
	b.WriteString("based on the candidate's skills and projects. ")
	b.WriteString("Do not ask to implement any code or algorithms. ")
	b.WriteString("Do not repeat previous questions. ")
	b.WriteString("Reply with the question only, no other information.\n")
	b.WriteString(fmt.Sprintf("Skills: %s\n", strings.Join(flat, ", ")))
	b.WriteString(fmt.Sprintf("Projects: %s\n", strings.Join(projects, "; ")))
	if len(asked) > 0 {
		b.WriteString(fmt.Sprintf("Already asked: %s\n", strings.Join(asked, " | ")))
	}
	b.WriteString("Question:")
	return b.String()
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return b.String()
}

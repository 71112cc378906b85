package service

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"
)

// ErrUnsupportedResumeFormat is returned for anything other than PDF
// or plain-text uploads.
var ErrUnsupportedResumeFormat = fmt.Errorf("unsupported resume format")

// ResumeProfile is what the question generator works from: skills
// grouped by category plus free-text project lines.
type ResumeProfile struct {
	Skills   map[string][]string `json:"skills"`
	Projects []string            `json:"projects"`
}

// ResumeService turns an uploaded resume into a candidate profile.
type ResumeService interface {
	Parse(data []byte, filename string) (*ResumeProfile, error)
}

// skillCategories maps a skill group to the keywords matched against
// the resume text. Matching is case-insensitive on word boundaries.
var skillCategories = map[string][]string{
	"programming_languages": {"python", "java", "c", "c++", "c#", "javascript", "typescript", "ruby", "go", "swift", "kotlin"},
	"web_development":       {"html", "css", "javascript", "react", "angular", "vue", "django", "flask", "node.js", "express"},
	"database":              {"mysql", "postgresql", "sqlite", "mongodb", "redis", "oracle"},
	"tools_and_platforms":   {"git", "docker", "kubernetes", "aws", "azure", "gcp", "firebase", "linux"},
	"machine_learning":      {"tensorflow", "pytorch", "scikit-learn", "keras", "pandas", "numpy", "opencv", "matplotlib"},
	"soft_skills":           {"communication", "teamwork", "problem solving", "leadership", "time management", "adaptability"},
}

var projectKeywords = []string{"project", "developed", "built", "created", "implemented", "designed"}

type resumeService struct {
	skillPatterns map[string][]*regexp.Regexp
}

func NewResumeService() ResumeService {
	patterns := make(map[string][]*regexp.Regexp, len(skillCategories))
	for category, skills := range skillCategories {
		compiled := make([]*regexp.Regexp, 0, len(skills))
		for _, skill := range skills {
			compiled = append(compiled, regexp.MustCompile(`\b`+regexp.QuoteMeta(strings.ToLower(skill))+`\b`))
		}
		patterns[category] = compiled
	}
	return &resumeService{skillPatterns: patterns}
}

func (r *resumeService) Parse(data []byte, filename string) (*ResumeProfile, error) {
	text, err := extractResumeText(data, filename)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("resume %q contains no extractable text", filename)
	}

	profile := &ResumeProfile{
		Skills:   r.extractSkills(text),
		Projects: extractProjects(text),
	}
	log.Info().Str("filename", filename).
		Int("skillGroups", len(profile.Skills)).
		Int("projects", len(profile.Projects)).
		Msg("Parsed resume")
	return profile, nil
}

func extractResumeText(data []byte, filename string) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return extractPDFText(data)
	case ".txt":
		return string(data), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedResumeFormat, filename)
	}
}

func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return buf.String(), nil
}

// extractSkills scans the resume for known skill keywords and groups
// the hits by category. Each skill's pattern anchors on word
// boundaries so "go" does not match inside "google".
func (r *resumeService) extractSkills(text string) map[string][]string {
	lower := strings.ToLower(text)
	found := make(map[string][]string)

	categories := make([]string, 0, len(r.skillPatterns))
	for category := range r.skillPatterns {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		var hits []string
		for i, pattern := range r.skillPatterns[category] {
			if pattern.MatchString(lower) {
				hits = append(hits, skillCategories[category][i])
			}
		}
		if len(hits) > 0 {
			found[category] = hits
		}
	}
	return found
}

// extractProjects keeps lines that mention project work and carry
// enough text to be meaningful, deduplicated in document order.
func extractProjects(text string) []string {
	seen := make(map[string]struct{})
	var projects []string

	for _, line := range strings.Split(strings.ToLower(text), "\n") {
		line = strings.TrimSpace(line)
		if len(line) <= 20 {
			continue
		}
		for _, kw := range projectKeywords {
			if strings.Contains(line, kw) {
				if _, ok := seen[line]; !ok {
					seen[line] = struct{}{}
					projects = append(projects, line)
				}
				break
			}
		}
	}
	return projects
}

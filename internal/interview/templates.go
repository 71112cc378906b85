package interview

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// Template fallback used when the AI generator is unavailable or keeps
// repeating itself. Selection is deterministic: fixed template order
// over sorted skill groups, then projects, then generic fillers.

var skillTemplates = []string{
	"Can you explain your experience with %s?",
	"What challenges have you faced using %s?",
	"How have you applied %s in your projects?",
	"What is the most advanced thing you've done with %s?",
}

var projectTemplates = []string{
	"Tell me more about your project: %s.",
	"What was your role in the project: %s?",
	"What challenges did you overcome in %s?",
	"How did you use your skills in %s?",
}

var genericQuestions = []string{
	"Tell me about yourself and your background.",
	"What motivates you to perform well at work?",
	"Describe a situation where you had to learn something new quickly.",
	"How do you handle feedback and criticism?",
	"Where do you see yourself in the next few years?",
	"What do you consider your greatest professional strength?",
	"Describe a time you disagreed with a teammate and how you resolved it.",
	"How do you prioritize your work when everything feels urgent?",
	"What would your previous colleagues say about working with you?",
	"Why should we consider you for this position?",
}

// Normalize reduces a question to a comparison key: lowercase,
// punctuation stripped, whitespace collapsed.
func Normalize(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// TemplateQuestion returns the first candidate question whose normalized
// text has not been asked yet. Returns false only when every template
// and generic filler is exhausted.
func TemplateQuestion(skills map[string][]string, projects []string, asked map[string]struct{}) (string, bool) {
	groups := make([]string, 0, len(skills))
	for g := range skills {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	for _, g := range groups {
		for _, skill := range skills[g] {
			for _, tmpl := range skillTemplates {
				q := fmt.Sprintf(tmpl, skill)
				if _, seen := asked[Normalize(q)]; !seen {
					return q, true
				}
			}
		}
	}

	for _, project := range projects {
		for _, tmpl := range projectTemplates {
			q := fmt.Sprintf(tmpl, project)
			if _, seen := asked[Normalize(q)]; !seen {
				return q, true
			}
		}
	}

	for _, q := range genericQuestions {
		if _, seen := asked[Normalize(q)]; !seen {
			return q, true
		}
	}

	return "", false
}

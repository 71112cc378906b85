package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResume = `Jane Doe
Software Engineer

SKILLS
Python, Go, JavaScript, React, PostgreSQL, Docker, Kubernetes
Strong communication and teamwork.

PROJECTS
Developed a real-time chat application using WebSockets and Redis.
Built an internal dashboard for tracking deployment metrics across clusters.
Led weekly standups.
`

func TestResumeServiceParseTxt(t *testing.T) {
	svc := NewResumeService()
	profile, err := svc.Parse([]byte(sampleResume), "resume.txt")
	require.NoError(t, err)

	assert.Contains(t, profile.Skills["programming_languages"], "python")
	assert.Contains(t, profile.Skills["programming_languages"], "go")
	assert.Contains(t, profile.Skills["web_development"], "react")
	assert.Contains(t, profile.Skills["database"], "postgresql")
	assert.Contains(t, profile.Skills["database"], "redis")
	assert.Contains(t, profile.Skills["tools_and_platforms"], "docker")
	assert.Contains(t, profile.Skills["soft_skills"], "communication")

	require.Len(t, profile.Projects, 2)
	assert.Contains(t, profile.Projects[0], "chat application")
	assert.Contains(t, profile.Projects[1], "internal dashboard")
}

func TestResumeServiceWordBoundaries(t *testing.T) {
	svc := NewResumeService()
	profile, err := svc.Parse([]byte("I searched google and read cascading style guides for a long while before this line."), "notes.txt")
	require.NoError(t, err)

	// "go" must not match inside "google", "css" not inside "cascading".
	assert.NotContains(t, profile.Skills["programming_languages"], "go")
	assert.NotContains(t, profile.Skills["web_development"], "css")
}

func TestResumeServiceUnsupportedFormat(t *testing.T) {
	svc := NewResumeService()
	_, err := svc.Parse([]byte("whatever"), "resume.docx")
	require.ErrorIs(t, err, ErrUnsupportedResumeFormat)
}

func TestResumeServiceEmptyText(t *testing.T) {
	svc := NewResumeService()
	_, err := svc.Parse([]byte("   \n  \n"), "empty.txt")
	require.Error(t, err)
}

func TestExtractProjectsDedupAndLength(t *testing.T) {
	text := `developed a scheduling service for campus events and clubs
developed a scheduling service for campus events and clubs
built an app
unrelated hobby line that says nothing relevant at all`
	projects := extractProjects(text)
	require.Len(t, projects, 1)
	assert.Contains(t, projects[0], "scheduling service")
}

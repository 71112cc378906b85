package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/celestiq/interviewer/internal/interview"
	"github.com/celestiq/interviewer/internal/store"
)

// InterviewResult is one session as the HR dashboard sees it. The
// aggregate fields are recomputed from the raw question units on every
// read, so a partially persisted summary heals itself here.
type InterviewResult struct {
	CandidateID   string                         `json:"candidate_id"`
	SessionID     string                         `json:"session_id"`
	UserEmail     string                         `json:"user_email"`
	Status        string                         `json:"status"`
	InterviewDate time.Time                      `json:"interview_date"`
	TotalScore    int                            `json:"total_score"`
	AverageScore  float64                        `json:"average_score"`
	Questions     []interview.QuestionUnit       `json:"questions"`
	Breakdown     map[interview.Category]float64 `json:"category_breakdown"`
	Strongest     interview.Category             `json:"strongest_category,omitempty"`
	Weakest       interview.Category             `json:"weakest_category,omitempty"`
}

// CategoryStat is the cross-candidate view of one interview category.
type CategoryStat struct {
	Category     interview.Category `json:"category"`
	Answered     int                `json:"answered"`
	AverageScore float64            `json:"average_score"`
}

// HRService is the read side over everything the persistence writer
// records, plus spreadsheet export for offline review.
type HRService interface {
	ListResults(ctx context.Context) ([]InterviewResult, error)
	CategoryAnalytics(ctx context.Context) ([]CategoryStat, error)
	ExportResults(ctx context.Context) ([]byte, error)
}

type hrService struct {
	store store.Store
}

func NewHRService(st store.Store) HRService {
	return &hrService{store: st}
}

func (h *hrService) ListResults(ctx context.Context) ([]InterviewResult, error) {
	docs, err := h.store.List(ctx, []string{"interviews"})
	if err != nil {
		return nil, fmt.Errorf("list interviews: %w", err)
	}

	results := make(map[string]*InterviewResult)
	for path, doc := range docs {
		segments := strings.Split(path, "/")
		switch {
		case len(segments) == 3:
			r := resultAt(results, segments[1], segments[2])
			r.UserEmail = asString(doc["user_email"])
			r.Status = asString(doc["status"])
			if ms, ok := asInt64(doc["interview_date"]); ok {
				r.InterviewDate = time.UnixMilli(ms)
			}
		case len(segments) == 5 && segments[3] == "questions":
			r := resultAt(results, segments[1], segments[2])
			r.Questions = append(r.Questions, unitFromDoc(segments[4], doc))
		default:
			log.Debug().Str("path", path).Msg("Skipping unrecognized interview document")
		}
	}

	out := make([]InterviewResult, 0, len(results))
	for _, r := range results {
		sort.Slice(r.Questions, func(i, j int) bool {
			return r.Questions[i].Number < r.Questions[j].Number
		})
		rollup := interview.Aggregate(r.Questions)
		r.TotalScore = rollup.TotalScore
		r.AverageScore = rollup.AverageScore
		r.Breakdown = rollup.CategoryBreakdown
		r.Strongest, r.Weakest = extremes(rollup.CategoryBreakdown)
		if r.Status == "" {
			r.Status = "in_progress"
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CandidateID != out[j].CandidateID {
			return out[i].CandidateID < out[j].CandidateID
		}
		return out[i].SessionID < out[j].SessionID
	})
	return out, nil
}

func (h *hrService) CategoryAnalytics(ctx context.Context) ([]CategoryStat, error) {
	results, err := h.ListResults(ctx)
	if err != nil {
		return nil, err
	}

	sums := make(map[interview.Category]int)
	counts := make(map[interview.Category]int)
	for _, r := range results {
		for _, unit := range r.Questions {
			sums[unit.Category] += unit.Score
			counts[unit.Category]++
		}
	}

	stats := make([]CategoryStat, 0, len(interview.Categories))
	for _, c := range interview.Categories {
		stat := CategoryStat{Category: c, Answered: counts[c]}
		if counts[c] > 0 {
			stat.AverageScore = float64(sums[c]) / float64(counts[c])
		}
		stats = append(stats, stat)
	}
	return stats, nil
}

// ExportResults builds an xlsx workbook with one summary sheet and one
// sheet of individual question rows.
func (h *hrService) ExportResults(ctx context.Context) ([]byte, error) {
	results, err := h.ListResults(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const summarySheet = "Interviews"
	f.SetSheetName("Sheet1", summarySheet)
	summaryHeaders := []string{"Candidate", "Email", "Session", "Date", "Status", "Questions", "Total Score", "Average"}
	for i, head := range summaryHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(summarySheet, cell, head)
	}
	for row, r := range results {
		values := []any{
			r.CandidateID, r.UserEmail, r.SessionID,
			r.InterviewDate.Format("2006-01-02 15:04"),
			r.Status, len(r.Questions), r.TotalScore, r.AverageScore,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(summarySheet, cell, v)
		}
	}

	const answersSheet = "Answers"
	if _, err := f.NewSheet(answersSheet); err != nil {
		return nil, fmt.Errorf("create answers sheet: %w", err)
	}
	answerHeaders := []string{"Candidate", "Session", "#", "Category", "Question", "Answer", "Score", "Justification"}
	for i, head := range answerHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(answersSheet, cell, head)
	}
	row := 2
	for _, r := range results {
		for _, unit := range r.Questions {
			values := []any{
				r.CandidateID, r.SessionID, unit.Number,
				string(unit.Category), unit.Question, unit.Answer,
				unit.Score, unit.Justification,
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				f.SetCellValue(answersSheet, cell, v)
			}
			row++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// extremes picks the best and worst scoring categories, walking the
// fixed category order so ties resolve deterministically.
func extremes(breakdown map[interview.Category]float64) (strongest, weakest interview.Category) {
	best, worst := -1.0, -1.0
	for _, c := range interview.Categories {
		avg, ok := breakdown[c]
		if !ok {
			continue
		}
		if avg > best {
			best = avg
			strongest = c
		}
		if worst < 0 || avg < worst {
			worst = avg
			weakest = c
		}
	}
	return strongest, weakest
}

func resultAt(results map[string]*InterviewResult, candidateID, sessionID string) *InterviewResult {
	key := candidateID + "/" + sessionID
	if r, ok := results[key]; ok {
		return r
	}
	r := &InterviewResult{CandidateID: candidateID, SessionID: sessionID}
	results[key] = r
	return r
}

func unitFromDoc(key string, doc store.Doc) interview.QuestionUnit {
	unit := interview.QuestionUnit{
		Category:      interview.Category(asString(doc["category"])),
		Question:      asString(doc["question"]),
		Answer:        asString(doc["answer"]),
		Justification: asString(doc["justification"]),
	}
	if n, err := strconv.Atoi(strings.TrimPrefix(key, "q")); err == nil {
		unit.Number = n
	}
	if score, ok := asInt64(doc["score"]); ok {
		unit.Score = int(score)
	}
	return unit
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	default:
		return 0, false
	}
}

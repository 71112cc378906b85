package interview

// Category is one of the fixed interview topic buckets.
type Category string

const (
	CategoryTechnicalSkills Category = "technical_skills"
	CategoryCommunication   Category = "communication"
	CategoryProblemSolving  Category = "problem_solving"
	CategoryLeadership      Category = "leadership"
	CategoryExperience      Category = "experience"
)

// Categories lists the interview topics in the fixed order they are asked.
// The order is deliberate: the same quota state always yields the same
// category sequence, so interviews are reproducible.
var Categories = []Category{
	CategoryTechnicalSkills,
	CategoryCommunication,
	CategoryProblemSolving,
	CategoryLeadership,
	CategoryExperience,
}

const (
	// QuestionsPerCategory is the per-category quota for a session.
	QuestionsPerCategory = 2
	// MaxQuestions is the total attempt budget for a session.
	MaxQuestions = 10
)

// QuotaSlot tracks how many questions a category has consumed.
type QuotaSlot struct {
	Required int `json:"required"`
	Used     int `json:"used"`
}

// Quota maps each category to its slot counters.
type Quota map[Category]*QuotaSlot

// NewQuota returns a fresh quota with all five categories at zero.
func NewQuota() Quota {
	q := make(Quota, len(Categories))
	for _, c := range Categories {
		q[c] = &QuotaSlot{Required: QuestionsPerCategory}
	}
	return q
}

// NextCategory returns the first category in declaration order whose
// quota is not yet filled, or false when all ten slots are consumed.
func (q Quota) NextCategory() (Category, bool) {
	for _, c := range Categories {
		slot, ok := q[c]
		if !ok {
			continue
		}
		if slot.Used < slot.Required {
			return c, true
		}
	}
	return "", false
}

// TotalUsed sums the consumed slots across all categories.
func (q Quota) TotalUsed() int {
	total := 0
	for _, slot := range q {
		total += slot.Used
	}
	return total
}

// Exhausted reports whether every category slot has been consumed.
func (q Quota) Exhausted() bool {
	_, ok := q.NextCategory()
	return !ok
}

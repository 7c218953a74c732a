package domain

// TargetScore is the per-category score every learner is steered toward.
const TargetScore = 70

// GapPriority buckets a skill gap by size.
type GapPriority string

const (
	PriorityHigh   GapPriority = "HIGH"   // gap >= 20
	PriorityMedium GapPriority = "MEDIUM" // gap >= 10
	PriorityLow    GapPriority = "LOW"    // gap < 10
)

// PriorityForGap maps a gap size to its priority bucket.
func PriorityForGap(gap int) GapPriority {
	switch {
	case gap >= 20:
		return PriorityHigh
	case gap >= 10:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// SkillProfile holds one bounded [0,100] score per category.
type SkillProfile map[Category]int

// SkillGap quantifies the distance from a category score to the target.
// Gap is never negative.
type SkillGap struct {
	Category     Category    `json:"category"`
	CurrentScore int         `json:"currentScore"`
	TargetScore  int         `json:"targetScore"`
	Gap          int         `json:"gap"`
	Priority     GapPriority `json:"priority"`
	StudyRefs    []StudyRef  `json:"studyRefs"`
}

// StudyRef points a learner at a lesson or question worth revisiting.
type StudyRef struct {
	Kind     string   `json:"kind"` // "lesson" or "question"
	RefID    string   `json:"refId"`
	Category Category `json:"category"`
	Title    string   `json:"title"`
}

// NewSkillGap derives a gap from a category score, clamping at zero.
func NewSkillGap(category Category, score int) SkillGap {
	gap := TargetScore - score
	if gap < 0 {
		gap = 0
	}
	return SkillGap{
		Category:     category,
		CurrentScore: score,
		TargetScore:  TargetScore,
		Gap:          gap,
		Priority:     PriorityForGap(gap),
	}
}

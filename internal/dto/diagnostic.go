package dto

import "academy-ai/internal/domain"

// StartSessionResponse identifies a freshly created diagnostic session.
type StartSessionResponse struct {
	SessionID      string `json:"sessionId"`
	TotalQuestions int    `json:"totalQuestions"`
}

// QuestionView is a question as exposed to the client before answering.
// The correct index and explanation are deliberately absent; they are
// only revealed in SubmitAnswerResponse.
type QuestionView struct {
	ID         string   `json:"id"`
	Category   string   `json:"category"`
	Difficulty string   `json:"difficulty"`
	Prompt     string   `json:"prompt"`
	Options    []string `json:"options"`
}

// SessionStateResponse is the current position within a session.
type SessionStateResponse struct {
	Cursor          int           `json:"cursor"`
	TotalQuestions  int           `json:"totalQuestions"`
	CurrentQuestion *QuestionView `json:"currentQuestion"`
	IsComplete      bool          `json:"isComplete"`
}

// SubmitAnswerRequest submits the answer for the question at the cursor.
type SubmitAnswerRequest struct {
	QuestionID    string `json:"questionId"`
	SelectedIndex int    `json:"selectedIndex"`
}

// SubmitAnswerResponse reveals the outcome and the explanation.
type SubmitAnswerResponse struct {
	IsCorrect    bool   `json:"isCorrect"`
	CorrectIndex int    `json:"correctIndex"`
	Explanation  string `json:"explanation"`
	IsComplete   bool   `json:"isComplete"`
}

// SkillGapView is one prioritized learning gap.
type SkillGapView struct {
	Category     string            `json:"category"`
	CurrentScore int               `json:"currentScore"`
	TargetScore  int               `json:"targetScore"`
	Gap          int               `json:"gap"`
	Priority     string            `json:"priority"`
	StudyRefs    []domain.StudyRef `json:"studyRefs"`
}

// ResultsResponse is the final scoring of a completed session.
type ResultsResponse struct {
	Accuracy        int               `json:"accuracy"`
	SkillProfile    map[string]int    `json:"skillProfile"`
	Gaps            []SkillGapView    `json:"gaps"`
	RecommendedRefs []domain.StudyRef `json:"recommendedRefs"`
}

// NewQuestionView builds the redacted client view of a question.
func NewQuestionView(q domain.DiagnosticQuestion) *QuestionView {
	return &QuestionView{
		ID:         q.ID,
		Category:   string(q.Category),
		Difficulty: q.Difficulty,
		Prompt:     q.Prompt,
		Options:    append([]string(nil), q.Options...),
	}
}

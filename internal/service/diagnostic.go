package service

import (
	"context"
	"math"
	"math/rand"
	"time"

	"academy-ai/internal/domain"
	"academy-ai/internal/dto"
	"academy-ai/internal/util"

	"go.uber.org/zap"
)

const (
	// questionsPerCategory is the even split of the default 15-question
	// diagnostic across the 5 categories.
	questionsPerCategory = 3

	// neutralScore is assigned to categories with no answered
	// questions: a neutral prior, not a zero, so short quizzes do not
	// penalize untouched categories.
	neutralScore = 50

	maxStudyRefsPerGap = 2
	maxStudyRefsTotal  = 5
)

// QuestionSource supplies quiz questions per category and accepts
// background refresh hints. Implemented by QuestionBankService.
type QuestionSource interface {
	// QuestionsForQuiz returns usable questions and whether the backing
	// bank entry is stale.
	QuestionsForQuiz(ctx context.Context, category domain.Category) ([]domain.DiagnosticQuestion, bool, error)

	// RefreshCategoryAsync kicks off a non-blocking regeneration.
	RefreshCategoryAsync(category domain.Category)
}

// DiagnosticService runs the CREATED -> IN_PROGRESS -> COMPLETE quiz
// state machine and scores completed sessions.
type DiagnosticService struct {
	store           domain.SessionStore
	questions       QuestionSource
	categoryLessons map[string][]string
	logger          *zap.Logger
	shuffle         func(n int, swap func(i, j int))
}

// NewDiagnosticService creates a new DiagnosticService.
func NewDiagnosticService(
	store domain.SessionStore,
	questions QuestionSource,
	categoryLessons map[string][]string,
	logger *zap.Logger,
) *DiagnosticService {
	return &DiagnosticService{
		store:           store,
		questions:       questions,
		categoryLessons: categoryLessons,
		logger:          logger,
		shuffle:         rand.Shuffle,
	}
}

// StartSession assembles a balanced question set and creates the session
// at cursor 0. A stale bank is still served; staleness only triggers a
// background refresh.
func (s *DiagnosticService) StartSession(ctx context.Context, userID string) (*dto.StartSessionResponse, error) {
	if userID == "" {
		return nil, domain.NewUnauthenticatedError()
	}

	var ordered []domain.DiagnosticQuestion
	for _, category := range domain.AllCategories {
		available, stale, err := s.questions.QuestionsForQuiz(ctx, category)
		if err != nil {
			return nil, err
		}
		if stale {
			s.questions.RefreshCategoryAsync(category)
		}

		picked := append([]domain.DiagnosticQuestion(nil), available...)
		s.shuffle(len(picked), func(i, j int) {
			picked[i], picked[j] = picked[j], picked[i]
		})
		if len(picked) > questionsPerCategory {
			picked = picked[:questionsPerCategory]
		}
		ordered = append(ordered, picked...)
	}

	session := &domain.DiagnosticSession{
		ID:          util.NewULID(),
		OwnerUserID: userID,
		Questions:   ordered,
		Answers:     make([]domain.Answer, 0, len(ordered)),
		Cursor:      0,
		StartedAt:   time.Now(),
	}
	if err := s.store.Put(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("Started diagnostic session",
		zap.String("session_id", session.ID),
		zap.String("user_id", userID),
		zap.Int("total_questions", len(ordered)),
	)

	return &dto.StartSessionResponse{
		SessionID:      session.ID,
		TotalQuestions: len(ordered),
	}, nil
}

// GetSessionState returns the cursor position and the redacted current
// question. The correct index and explanation are never exposed before
// the question is answered.
func (s *DiagnosticService) GetSessionState(ctx context.Context, sessionID string) (*dto.SessionStateResponse, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	resp := &dto.SessionStateResponse{
		Cursor:         session.Cursor,
		TotalQuestions: len(session.Questions),
		IsComplete:     session.IsComplete(),
	}
	if current := session.CurrentQuestion(); current != nil {
		resp.CurrentQuestion = dto.NewQuestionView(*current)
	}
	return resp, nil
}

// SubmitAnswer records the answer for the question at the cursor and
// advances it. The store serializes concurrent submissions per session.
func (s *DiagnosticService) SubmitAnswer(ctx context.Context, sessionID string, req dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error) {
	if req.SelectedIndex < 0 || req.SelectedIndex >= domain.OptionCount {
		return nil, domain.NewInvalidInputError("selected option index out of range")
	}

	var resp *dto.SubmitAnswerResponse
	_, err := s.store.Update(ctx, sessionID, func(session *domain.DiagnosticSession) error {
		if session.IsComplete() {
			return domain.NewSessionCompleteError(sessionID)
		}

		current := session.Questions[session.Cursor]
		if current.ID != req.QuestionID {
			return domain.NewQuestionNotFoundError(req.QuestionID)
		}

		isCorrect := req.SelectedIndex == current.CorrectOptionIndex
		session.Answers = append(session.Answers, domain.Answer{
			QuestionID:    current.ID,
			SelectedIndex: req.SelectedIndex,
			IsCorrect:     isCorrect,
		})
		session.Cursor++

		resp = &dto.SubmitAnswerResponse{
			IsCorrect:    isCorrect,
			CorrectIndex: current.CorrectOptionIndex,
			Explanation:  current.Explanation,
			IsComplete:   session.IsComplete(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// GetResults scores a completed session. The computation is pure over
// the stored session state, so repeated calls return identical results
// and record nothing.
func (s *DiagnosticService) GetResults(ctx context.Context, sessionID string) (*dto.ResultsResponse, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsComplete() {
		return nil, domain.NewInvalidInputError("session is not complete yet")
	}

	profile, accuracy := scoreSession(session)
	gaps := buildGaps(profile)
	refs := s.recommendRefs(session, gaps)

	gapViews := make([]dto.SkillGapView, 0, len(gaps))
	for _, g := range gaps {
		gapViews = append(gapViews, dto.SkillGapView{
			Category:     string(g.Category),
			CurrentScore: g.CurrentScore,
			TargetScore:  g.TargetScore,
			Gap:          g.Gap,
			Priority:     string(g.Priority),
			StudyRefs:    g.StudyRefs,
		})
	}

	profileView := make(map[string]int, len(profile))
	for category, score := range profile {
		profileView[string(category)] = score
	}

	return &dto.ResultsResponse{
		Accuracy:        accuracy,
		SkillProfile:    profileView,
		Gaps:            gapViews,
		RecommendedRefs: refs,
	}, nil
}

// scoreSession computes the per-category profile and overall accuracy.
func scoreSession(session *domain.DiagnosticSession) (domain.SkillProfile, int) {
	questionCategory := make(map[string]domain.Category, len(session.Questions))
	for _, q := range session.Questions {
		questionCategory[q.ID] = q.Category
	}

	answered := make(map[domain.Category]int)
	correct := make(map[domain.Category]int)
	totalCorrect := 0
	for _, a := range session.Answers {
		category := questionCategory[a.QuestionID]
		answered[category]++
		if a.IsCorrect {
			correct[category]++
			totalCorrect++
		}
	}

	profile := make(domain.SkillProfile, len(domain.AllCategories))
	for _, category := range domain.AllCategories {
		if answered[category] == 0 {
			profile[category] = neutralScore
			continue
		}
		profile[category] = int(math.Round(100 * float64(correct[category]) / float64(answered[category])))
	}

	accuracy := 0
	if len(session.Answers) > 0 {
		accuracy = int(math.Round(100 * float64(totalCorrect) / float64(len(session.Answers))))
	}
	return profile, accuracy
}

// buildGaps derives gaps for every category, sorted by gap descending.
// Ties break on canonical category order, which AllCategories already
// provides; a stable insertion keeps it.
func buildGaps(profile domain.SkillProfile) []domain.SkillGap {
	gaps := make([]domain.SkillGap, 0, len(domain.AllCategories))
	for _, category := range domain.AllCategories {
		gaps = append(gaps, domain.NewSkillGap(category, profile[category]))
	}
	// Insertion sort keeps equal gaps in category order.
	for i := 1; i < len(gaps); i++ {
		for j := i; j > 0 && gaps[j].Gap > gaps[j-1].Gap; j-- {
			gaps[j], gaps[j-1] = gaps[j-1], gaps[j]
		}
	}
	return gaps
}

// recommendRefs builds the study list: up to maxStudyRefsPerGap refs for
// each of the largest gaps, capped at maxStudyRefsTotal overall. Lessons
// mapped to the category come first; missed questions fill the rest.
func (s *DiagnosticService) recommendRefs(session *domain.DiagnosticSession, gaps []domain.SkillGap) []domain.StudyRef {
	missedByCategory := make(map[domain.Category][]string)
	questionCategory := make(map[string]domain.Category, len(session.Questions))
	for _, q := range session.Questions {
		questionCategory[q.ID] = q.Category
	}
	for _, a := range session.Answers {
		if !a.IsCorrect {
			category := questionCategory[a.QuestionID]
			missedByCategory[category] = append(missedByCategory[category], a.QuestionID)
		}
	}

	refs := make([]domain.StudyRef, 0, maxStudyRefsTotal)
	for gi := range gaps {
		if len(refs) >= maxStudyRefsTotal {
			break
		}
		category := gaps[gi].Category
		perGap := 0

		for _, lessonID := range s.categoryLessons[string(category)] {
			if perGap >= maxStudyRefsPerGap || len(refs) >= maxStudyRefsTotal {
				break
			}
			ref := domain.StudyRef{
				Kind:     "lesson",
				RefID:    lessonID,
				Category: category,
				Title:    "Review lesson " + lessonID,
			}
			refs = append(refs, ref)
			gaps[gi].StudyRefs = append(gaps[gi].StudyRefs, ref)
			perGap++
		}
		for _, questionID := range missedByCategory[category] {
			if perGap >= maxStudyRefsPerGap || len(refs) >= maxStudyRefsTotal {
				break
			}
			ref := domain.StudyRef{
				Kind:     "question",
				RefID:    questionID,
				Category: category,
				Title:    "Revisit a missed question",
			}
			refs = append(refs, ref)
			gaps[gi].StudyRefs = append(gaps[gi].StudyRefs, ref)
			perGap++
		}
	}
	return refs
}

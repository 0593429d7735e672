package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/prajwalts/interviewdost/internal/model"
	"github.com/prajwalts/interviewdost/internal/repository"
	"github.com/prajwalts/interviewdost/internal/service"
)

var (
	ErrInterviewerRequired   = errors.New("interviewer_id is required")
	ErrInterviewerNotFound   = errors.New("interviewer not found")
	ErrConversationNotLinked = errors.New("interview has no linked conversation")
	ErrAnswerTextRequired    = errors.New("answer_text is required")
	ErrSystemMessageRequired = errors.New("message is required")
)

type InterviewUsecase struct {
	interviewRepo *repository.InterviewRepository
	userRepo      *repository.UserRepository
	registrar     *ProfileUsecase
	tavus         service.TavusServiceInterface
	gemini        service.GeminiServiceInterface
}

func NewInterviewUsecase(
	interviewRepo *repository.InterviewRepository,
	userRepo *repository.UserRepository,
	registrar *ProfileUsecase,
	tavus service.TavusServiceInterface,
	gemini service.GeminiServiceInterface,
) *InterviewUsecase {
	return &InterviewUsecase{
		interviewRepo: interviewRepo,
		userRepo:      userRepo,
		registrar:     registrar,
		tavus:         tavus,
		gemini:        gemini,
	}
}

type StartInterviewInput struct {
	CandidateName  *string
	CandidateEmail *string
	CandidateRole  *string
	InterviewerID  *uint
	InterviewType  *string
	ScheduledAt    *time.Time
	Skills         []string
}

type StartInterviewResult struct {
	Interview     *model.Interview
	Question      *model.Question
	ProviderError *string
}

// StartInterview drives the session setup: validate the interviewer, resolve
// the candidate, register skills, persist the interview row, then attempt
// conversation provisioning and first-question generation. The interview row
// is committed before any provider call so the caller always gets a usable
// interview id, even under total provider unavailability.
func (uc *InterviewUsecase) StartInterview(ctx context.Context, input StartInterviewInput) (*StartInterviewResult, error) {
	// Hard preconditions first, before any row is written.
	if input.InterviewerID == nil {
		return nil, ErrInterviewerRequired
	}
	interviewer, err := uc.userRepo.FindUserByID(*input.InterviewerID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInterviewerNotFound
		}
		return nil, err
	}

	candidate, err := uc.resolveCandidate(input)
	if err != nil {
		return nil, err
	}

	skills, err := uc.registrar.RegisterSkills(candidate.ID, input.Skills, nil)
	if err != nil {
		return nil, err
	}

	interview := &model.Interview{
		CandidateID:   candidate.ID,
		InterviewerID: interviewer.ID,
		ScheduledAt:   input.ScheduledAt,
		Type:          input.InterviewType,
	}
	if err := uc.interviewRepo.CreateInterview(interview); err != nil {
		return nil, err
	}

	profile := service.ProfileContext{
		Name:   derefString(candidate.Name),
		Role:   derefString(input.InterviewType),
		Skills: skills,
	}
	if candidate.ResumeSummary != nil {
		profile.ResumeSummary = *candidate.ResumeSummary
	}

	// Best-effort: a conversation provider failure degrades the session to a
	// text-only interview instead of aborting it. The failure is surfaced to
	// the caller as a soft warning string, once, here.
	var providerError *string
	conversation, err := uc.tavus.Provision(ctx,
		fmt.Sprintf("InterviewDost Interview %d", interview.ID),
		interviewBriefing(profile))
	if err != nil {
		log.Printf("conversation provisioning failed for interview %d: %v", interview.ID, err)
		msg := fmt.Sprintf("conversation provider unavailable: %v", err)
		providerError = &msg
	} else {
		if conversation.ID != "" {
			interview.ConversationID = &conversation.ID
		}
		if conversation.URL != "" {
			interview.ConversationURL = &conversation.URL
		}
	}
	if err := uc.interviewRepo.UpdateInterview(interview); err != nil {
		return nil, err
	}

	// Never fails: the gateway falls back to a local template.
	questionText := uc.gemini.GenerateQuestion(ctx, profile)
	question := &model.Question{
		InterviewID:  interview.ID,
		QuestionText: questionText,
	}
	if err := uc.interviewRepo.CreateQuestion(question); err != nil {
		return nil, err
	}

	return &StartInterviewResult{
		Interview:     interview,
		Question:      question,
		ProviderError: providerError,
	}, nil
}

// resolveCandidate reuses an existing participant sharing the contact
// address, so a previously-enriched profile can start sessions without
// re-entering data. A candidate without an email is always created fresh.
func (uc *InterviewUsecase) resolveCandidate(input StartInterviewInput) (*model.User, error) {
	if input.CandidateEmail != nil && *input.CandidateEmail != "" {
		existing, err := uc.userRepo.FindUserByEmail(*input.CandidateEmail)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, repository.ErrUserNotFound) {
			return nil, err
		}
	}

	role := "candidate"
	if input.CandidateRole != nil && *input.CandidateRole != "" {
		role = *input.CandidateRole
	}
	candidate := &model.User{
		Name:  input.CandidateName,
		Email: input.CandidateEmail,
		Role:  role,
	}
	if err := uc.userRepo.CreateUser(candidate); err != nil {
		return nil, err
	}
	return candidate, nil
}

type SubmitAnswerResult struct {
	InterviewID uint
	QuestionID  uint
	Scores      service.AnswerScores
	Done        bool
}

// SubmitAnswer scores the answer, stores it, and recomputes the interview's
// overall score. Re-submitting an answer for an already-answered question
// overwrites the stored answer and scores in place.
func (uc *InterviewUsecase) SubmitAnswer(ctx context.Context, interviewID, questionID uint, answerText string) (*SubmitAnswerResult, error) {
	if strings.TrimSpace(answerText) == "" {
		return nil, ErrAnswerTextRequired
	}

	interview, err := uc.interviewRepo.FindInterviewByID(interviewID)
	if err != nil {
		return nil, err
	}
	question, err := uc.interviewRepo.FindQuestion(interviewID, questionID)
	if err != nil {
		return nil, err
	}

	scores := uc.gemini.EvaluateAnswer(ctx, question.QuestionText, answerText)

	existing, err := uc.interviewRepo.FindAnswerByQuestion(question.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		answer := &model.Answer{
			QuestionID:      question.ID,
			AnswerText:      answerText,
			RelevanceScore:  scores.Relevance,
			ConfidenceLevel: scores.Confidence,
		}
		if err := uc.interviewRepo.CreateAnswer(answer); err != nil {
			return nil, err
		}
	} else {
		existing.AnswerText = answerText
		existing.RelevanceScore = scores.Relevance
		existing.ConfidenceLevel = scores.Confidence
		if err := uc.interviewRepo.UpdateAnswer(existing); err != nil {
			return nil, err
		}
	}

	score := overallScore(scores)
	interview.OverallScore = &score
	if err := uc.interviewRepo.UpdateInterview(interview); err != nil {
		return nil, err
	}

	return &SubmitAnswerResult{
		InterviewID: interview.ID,
		QuestionID:  question.ID,
		Scores:      scores,
		Done:        true,
	}, nil
}

// PushSystemMessage injects text into the interview's existing conversation.
// Unlike provisioning, a provider failure here is surfaced hard: the caller
// explicitly asked to use a conversation that is supposed to work.
func (uc *InterviewUsecase) PushSystemMessage(ctx context.Context, interviewID uint, message string) error {
	if strings.TrimSpace(message) == "" {
		return ErrSystemMessageRequired
	}

	interview, err := uc.interviewRepo.FindInterviewByID(interviewID)
	if err != nil {
		return err
	}
	if interview.ConversationID == nil || *interview.ConversationID == "" {
		return ErrConversationNotLinked
	}

	return uc.tavus.SendSystemMessage(ctx, *interview.ConversationID, message)
}

type SummaryItem struct {
	Question        string
	Answer          *string
	RelevanceScore  *int
	ConfidenceLevel *int
}

type Summary struct {
	InterviewID  uint
	OverallScore *int
	Items        []SummaryItem
}

// GetSummary reports every question in creation order; unanswered questions
// appear with null answer and scores rather than being omitted.
func (uc *InterviewUsecase) GetSummary(interviewID uint) (*Summary, error) {
	interview, err := uc.interviewRepo.FindInterviewByID(interviewID)
	if err != nil {
		return nil, err
	}
	questions, err := uc.interviewRepo.ListQuestions(interviewID)
	if err != nil {
		return nil, err
	}

	items := make([]SummaryItem, 0, len(questions))
	for _, q := range questions {
		item := SummaryItem{Question: q.QuestionText}
		if q.Answer != nil {
			item.Answer = &q.Answer.AnswerText
			item.RelevanceScore = &q.Answer.RelevanceScore
			item.ConfidenceLevel = &q.Answer.ConfidenceLevel
		}
		items = append(items, item)
	}

	return &Summary{
		InterviewID:  interview.ID,
		OverallScore: interview.OverallScore,
		Items:        items,
	}, nil
}

// GetOrSynthesizeFeedback returns existing feedback verbatim, or assembles
// the transcript and synthesizes one. Two concurrent first calls can both
// reach the create; the unique index on feedbacks.interview_id settles the
// race and the loser re-reads the winner's row.
func (uc *InterviewUsecase) GetOrSynthesizeFeedback(ctx context.Context, interviewID uint) (*model.Feedback, error) {
	fb, err := uc.interviewRepo.FindFeedbackByInterview(interviewID)
	if err == nil {
		return fb, nil
	}
	if !errors.Is(err, repository.ErrFeedbackNotFound) {
		return nil, err
	}

	interview, err := uc.interviewRepo.FindInterviewByID(interviewID)
	if err != nil {
		return nil, err
	}
	questions, err := uc.interviewRepo.ListQuestions(interviewID)
	if err != nil {
		return nil, err
	}

	transcript := make([]service.TranscriptItem, 0, len(questions))
	for _, q := range questions {
		item := service.TranscriptItem{Question: q.QuestionText}
		if q.Answer != nil {
			item.Answer = q.Answer.AnswerText
		}
		transcript = append(transcript, item)
	}

	candidateName := ""
	if candidate, err := uc.userRepo.FindUserByID(interview.CandidateID); err == nil {
		candidateName = derefString(candidate.Name)
	}

	draft := uc.gemini.SynthesizeFeedback(ctx, candidateName, derefString(interview.Type), transcript)

	fb = &model.Feedback{
		InterviewID: interview.ID,
		Comments:    &draft.Comments,
		Suggestions: &draft.Suggestions,
	}
	if err := uc.interviewRepo.CreateFeedback(fb); err != nil {
		if existing, findErr := uc.interviewRepo.FindFeedbackByInterview(interviewID); findErr == nil {
			return existing, nil
		}
		return nil, err
	}
	return fb, nil
}

// UpsertFeedback creates or amends feedback explicitly. On update, absent
// fields leave existing values untouched; on first creation all three fields
// are stored as given, nulls included.
func (uc *InterviewUsecase) UpsertFeedback(interviewID uint, comments, suggestions, reportURL *string) (*model.Feedback, error) {
	if _, err := uc.interviewRepo.FindInterviewByID(interviewID); err != nil {
		return nil, err
	}

	fb, err := uc.interviewRepo.FindFeedbackByInterview(interviewID)
	if errors.Is(err, repository.ErrFeedbackNotFound) {
		fb = &model.Feedback{
			InterviewID: interviewID,
			Comments:    comments,
			Suggestions: suggestions,
			ReportURL:   reportURL,
		}
		if createErr := uc.interviewRepo.CreateFeedback(fb); createErr != nil {
			return nil, createErr
		}
		return fb, nil
	}
	if err != nil {
		return nil, err
	}

	if comments != nil {
		fb.Comments = comments
	}
	if suggestions != nil {
		fb.Suggestions = suggestions
	}
	if reportURL != nil {
		fb.ReportURL = reportURL
	}
	if err := uc.interviewRepo.UpdateFeedback(fb); err != nil {
		return nil, err
	}
	return fb, nil
}

func interviewBriefing(profile service.ProfileContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an AI interviewer. The candidate is %s for role %s. ",
		orThe(profile.Name, "the candidate"), orThe(profile.Role, "an unspecified role"))
	b.WriteString("Conduct a professional, structured interview, starting with introductions " +
		"and then exploring background, skills, projects, and behavior.")
	if len(profile.Skills) > 0 {
		fmt.Fprintf(&b, " Declared skills: %s.", strings.Join(profile.Skills, ", "))
	}
	if profile.ResumeSummary != "" {
		fmt.Fprintf(&b, " Resume summary: %s", profile.ResumeSummary)
	}
	return b.String()
}

func orThe(s, alt string) string {
	if strings.TrimSpace(s) == "" {
		return alt
	}
	return s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

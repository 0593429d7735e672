package dto

import "time"

type CandidateInput struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Role  *string `json:"role"`
}

type InterviewStartRequest struct {
	Candidate     CandidateInput `json:"candidate"`
	InterviewerID *uint          `json:"interviewer_id"`
	InterviewType *string        `json:"interview_type"`
	ScheduledAt   *time.Time     `json:"scheduled_at"`
	Skills        []string       `json:"skills"`
}

type QuestionDTO struct {
	QuestionID uint   `json:"question_id"`
	Text       string `json:"text"`
}

type InterviewStartResponse struct {
	InterviewID     uint        `json:"interview_id"`
	Question        QuestionDTO `json:"question"`
	ConversationURL *string     `json:"conversation_url"`
	ProviderError   *string     `json:"provider_error,omitempty"`
}

type AnswerRequest struct {
	AnswerText string `json:"answer_text"`
}

type AnswerResponse struct {
	InterviewID      uint         `json:"interview_id"`
	QuestionID       uint         `json:"question_id"`
	FollowUpQuestion *QuestionDTO `json:"follow_up_question"`
	Done             bool         `json:"done"`
}

type SystemMessageRequest struct {
	Message string `json:"message"`
}

type InterviewSummaryItem struct {
	Question        string  `json:"question"`
	Answer          *string `json:"answer"`
	RelevanceScore  *int    `json:"relevance_score"`
	ConfidenceLevel *int    `json:"confidence_level"`
}

type InterviewSummaryResponse struct {
	InterviewID  uint                   `json:"interview_id"`
	OverallScore *int                   `json:"overall_score"`
	Items        []InterviewSummaryItem `json:"items"`
}

type FeedbackUpsertRequest struct {
	Comments    *string `json:"comments"`
	Suggestions *string `json:"suggestions"`
	ReportURL   *string `json:"report_url"`
}

type FeedbackDTO struct {
	FeedbackID  uint    `json:"feedback_id"`
	InterviewID uint    `json:"interview_id"`
	Comments    *string `json:"comments"`
	Suggestions *string `json:"suggestions"`
	ReportURL   *string `json:"report_url"`
}

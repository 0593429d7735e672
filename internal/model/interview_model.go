package model

import "time"

type Interview struct {
	ID              uint       `gorm:"primaryKey" json:"interview_id"`
	CandidateID     uint       `gorm:"not null;index" json:"candidate_id"`
	InterviewerID   uint       `gorm:"not null;index" json:"interviewer_id"`
	ScheduledAt     *time.Time `json:"scheduled_at"`
	Type            *string    `gorm:"type:varchar(100)" json:"type"`
	OverallScore    *int       `json:"overall_score"`
	ConversationID  *string    `gorm:"type:varchar(100)" json:"conversation_id"`
	ConversationURL *string    `gorm:"type:varchar(255)" json:"conversation_url"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	Candidate   User       `gorm:"foreignKey:CandidateID" json:"-"`
	Interviewer User       `gorm:"foreignKey:InterviewerID" json:"-"`
	Questions   []Question `gorm:"foreignKey:InterviewID" json:"-"`
	Feedback    *Feedback  `gorm:"foreignKey:InterviewID" json:"-"`
}

func (i *Interview) TableName() string {
	return "interviews"
}

type Question struct {
	ID           uint    `gorm:"primaryKey" json:"question_id"`
	InterviewID  uint    `gorm:"not null;index" json:"interview_id"`
	QuestionText string  `gorm:"type:text;not null" json:"question_text"`
	Category     *string `gorm:"type:varchar(100)" json:"category"`

	Answer *Answer `gorm:"foreignKey:QuestionID" json:"-"`
}

func (q *Question) TableName() string {
	return "questions"
}

// Answer holds the candidate's answer to one question. The unique index on
// QuestionID enforces the one-answer-per-question invariant at the store.
type Answer struct {
	ID              uint   `gorm:"primaryKey" json:"answer_id"`
	QuestionID      uint   `gorm:"not null;uniqueIndex" json:"question_id"`
	AnswerText      string `gorm:"type:text" json:"answer_text"`
	RelevanceScore  int    `json:"relevance_score"`
	ConfidenceLevel int    `json:"confidence_level"`
}

func (a *Answer) TableName() string {
	return "responses"
}

// Feedback is materialized at most once per interview; the unique index on
// InterviewID backs the idempotent synthesis path.
type Feedback struct {
	ID          uint    `gorm:"primaryKey" json:"feedback_id"`
	InterviewID uint    `gorm:"not null;uniqueIndex" json:"interview_id"`
	Comments    *string `gorm:"type:text" json:"comments"`
	Suggestions *string `gorm:"type:text" json:"suggestions"`
	ReportURL   *string `gorm:"type:varchar(255)" json:"report_url"`
}

func (f *Feedback) TableName() string {
	return "feedbacks"
}

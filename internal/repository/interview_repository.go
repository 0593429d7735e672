package repository

import (
	"errors"

	"github.com/prajwalts/interviewdost/internal/model"
	"gorm.io/gorm"
)

var (
	ErrInterviewNotFound = errors.New("interview not found")
	ErrQuestionNotFound  = errors.New("question not found for this interview")
	ErrFeedbackNotFound  = errors.New("feedback not found")
)

type InterviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) *InterviewRepository {
	return &InterviewRepository{db}
}

func (r *InterviewRepository) CreateInterview(interview *model.Interview) error {
	return r.db.Create(interview).Error
}

func (r *InterviewRepository) UpdateInterview(interview *model.Interview) error {
	return r.db.Save(interview).Error
}

func (r *InterviewRepository) FindInterviewByID(id uint) (*model.Interview, error) {
	var interview model.Interview
	err := r.db.First(&interview, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInterviewNotFound
	}
	return &interview, err
}

func (r *InterviewRepository) CreateQuestion(question *model.Question) error {
	return r.db.Create(question).Error
}

// FindQuestion resolves a question id scoped to its interview; a question id
// belonging to another interview is reported as not found.
func (r *InterviewRepository) FindQuestion(interviewID, questionID uint) (*model.Question, error) {
	var question model.Question
	err := r.db.First(&question, "id = ? AND interview_id = ?", questionID, interviewID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrQuestionNotFound
	}
	return &question, err
}

func (r *InterviewRepository) ListQuestions(interviewID uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.Preload("Answer").Order("id").Find(&questions, "interview_id = ?", interviewID).Error
	return questions, err
}

func (r *InterviewRepository) FindAnswerByQuestion(questionID uint) (*model.Answer, error) {
	var answer model.Answer
	err := r.db.First(&answer, "question_id = ?", questionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *InterviewRepository) CreateAnswer(answer *model.Answer) error {
	return r.db.Create(answer).Error
}

func (r *InterviewRepository) UpdateAnswer(answer *model.Answer) error {
	return r.db.Save(answer).Error
}

func (r *InterviewRepository) FindFeedbackByInterview(interviewID uint) (*model.Feedback, error) {
	var fb model.Feedback
	err := r.db.First(&fb, "interview_id = ?", interviewID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFeedbackNotFound
	}
	return &fb, err
}

func (r *InterviewRepository) CreateFeedback(fb *model.Feedback) error {
	return r.db.Create(fb).Error
}

func (r *InterviewRepository) UpdateFeedback(fb *model.Feedback) error {
	return r.db.Save(fb).Error
}

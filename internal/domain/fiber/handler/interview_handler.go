package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prajwalts/interviewdost/internal/dto"
	"github.com/prajwalts/interviewdost/internal/middleware"
	"github.com/prajwalts/interviewdost/internal/usecase"
	"github.com/prajwalts/interviewdost/internal/util"
)

type InterviewHandler struct {
	uc *usecase.InterviewUsecase
}

func NewInterviewHandler(uc *usecase.InterviewUsecase) *InterviewHandler {
	return &InterviewHandler{uc: uc}
}

func (h *InterviewHandler) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api/interview")
	api.Post("/start", middleware.RateLimiter(5, 1*time.Minute), h.Start)
	api.Post("/:id/questions/:questionId/answer", h.SubmitAnswer)
	api.Post("/:id/system-message", h.PushSystemMessage)
	api.Get("/:id/summary", h.Summary)
	api.Get("/:id/feedback", h.GetFeedback)
	api.Post("/:id/feedback", h.UpsertFeedback)
}

func (h *InterviewHandler) Start(c *fiber.Ctx) error {
	var req dto.InterviewStartRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}

	result, err := h.uc.StartInterview(c.UserContext(), usecase.StartInterviewInput{
		CandidateName:  req.Candidate.Name,
		CandidateEmail: req.Candidate.Email,
		CandidateRole:  req.Candidate.Role,
		InterviewerID:  req.InterviewerID,
		InterviewType:  req.InterviewType,
		ScheduledAt:    req.ScheduledAt,
		Skills:         req.Skills,
	})
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    statusForError(err),
			Message: clientMessage(err),
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Interview started",
		Data: dto.InterviewStartResponse{
			InterviewID: result.Interview.ID,
			Question: dto.QuestionDTO{
				QuestionID: result.Question.ID,
				Text:       result.Question.QuestionText,
			},
			ConversationURL: result.Interview.ConversationURL,
			ProviderError:   result.ProviderError,
		},
	})
}

func (h *InterviewHandler) SubmitAnswer(c *fiber.Ctx) error {
	interviewID, err := c.ParamsInt("id")
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid interview id",
		}, err)
	}
	questionID, err := c.ParamsInt("questionId")
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid question id",
		}, err)
	}

	var req dto.AnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}

	result, err := h.uc.SubmitAnswer(c.UserContext(), uint(interviewID), uint(questionID), req.AnswerText)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    statusForError(err),
			Message: clientMessage(err),
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Answer scored",
		Data: dto.AnswerResponse{
			InterviewID: result.InterviewID,
			QuestionID:  result.QuestionID,
			Done:        result.Done,
		},
	})
}

func (h *InterviewHandler) PushSystemMessage(c *fiber.Ctx) error {
	interviewID, err := c.ParamsInt("id")
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid interview id",
		}, err)
	}

	var req dto.SystemMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}

	if err := h.uc.PushSystemMessage(c.UserContext(), uint(interviewID), req.Message); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    statusForError(err),
			Message: clientMessage(err),
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Message delivered to conversation",
	})
}

func (h *InterviewHandler) Summary(c *fiber.Ctx) error {
	interviewID, err := c.ParamsInt("id")
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid interview id",
		}, err)
	}

	summary, err := h.uc.GetSummary(uint(interviewID))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    statusForError(err),
			Message: clientMessage(err),
		}, err)
	}

	items := make([]dto.InterviewSummaryItem, 0, len(summary.Items))
	for _, item := range summary.Items {
		items = append(items, dto.InterviewSummaryItem{
			Question:        item.Question,
			Answer:          item.Answer,
			RelevanceScore:  item.RelevanceScore,
			ConfidenceLevel: item.ConfidenceLevel,
		})
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Interview summary",
		Data: dto.InterviewSummaryResponse{
			InterviewID:  summary.InterviewID,
			OverallScore: summary.OverallScore,
			Items:        items,
		},
	})
}

func (h *InterviewHandler) GetFeedback(c *fiber.Ctx) error {
	interviewID, err := c.ParamsInt("id")
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid interview id",
		}, err)
	}

	fb, err := h.uc.GetOrSynthesizeFeedback(c.UserContext(), uint(interviewID))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    statusForError(err),
			Message: clientMessage(err),
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Interview feedback",
		Data: dto.FeedbackDTO{
			FeedbackID:  fb.ID,
			InterviewID: fb.InterviewID,
			Comments:    fb.Comments,
			Suggestions: fb.Suggestions,
			ReportURL:   fb.ReportURL,
		},
	})
}

func (h *InterviewHandler) UpsertFeedback(c *fiber.Ctx) error {
	interviewID, err := c.ParamsInt("id")
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid interview id",
		}, err)
	}

	var req dto.FeedbackUpsertRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}

	fb, err := h.uc.UpsertFeedback(uint(interviewID), req.Comments, req.Suggestions, req.ReportURL)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    statusForError(err),
			Message: clientMessage(err),
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Feedback saved",
		Data: dto.FeedbackDTO{
			FeedbackID:  fb.ID,
			InterviewID: fb.InterviewID,
			Comments:    fb.Comments,
			Suggestions: fb.Suggestions,
			ReportURL:   fb.ReportURL,
		},
	})
}

package handler

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/prajwalts/interviewdost/internal/dto"
	"github.com/prajwalts/interviewdost/internal/service"
	"github.com/prajwalts/interviewdost/internal/usecase"
	"github.com/prajwalts/interviewdost/internal/util"
)

type ProfileHandler struct {
	uc *usecase.ProfileUsecase
}

func NewProfileHandler(uc *usecase.ProfileUsecase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

func (h *ProfileHandler) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api/profile")
	api.Post("/enrich", h.Enrich)
	api.Post("/:id/resume", h.UploadResume)
}

func (h *ProfileHandler) Enrich(c *fiber.Ctx) error {
	var req dto.ProfileEnrichRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}

	result, err := h.uc.EnrichProfile(c.UserContext(), service.ProfileInput{
		Name:       req.Name,
		TargetRole: req.TargetRole,
		Companies:  req.CompaniesWorked,
		TechStack:  req.TechStack,
	}, req.Email)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    statusForError(err),
			Message: clientMessage(err),
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Profile enriched",
		Data: dto.ProfileEnrichResponse{
			UserID:        result.UserID,
			ResumeSummary: result.ResumeSummary,
			Skills:        result.Skills,
		},
	})
}

func (h *ProfileHandler) UploadResume(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid user id",
		}, err)
	}

	file, err := c.FormFile("resume")
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "resume file is required",
		}, err)
	}
	if file.Size > 5*1024*1024 {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "resume file size is too large (max 5MB)",
		})
	}
	if strings.ToLower(filepath.Ext(file.Filename)) != ".pdf" {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "unsupported resume file type",
		})
	}

	savePath := filepath.Join("./uploads/resumes/", fmt.Sprintf("%d-%s", id, filepath.Base(file.Filename)))
	if err := c.SaveFile(file, savePath); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "cannot save resume file",
		}, err)
	}

	text, err := util.ExtractResumeText(savePath)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusUnprocessableEntity,
			Message: "failed to extract resume text",
		}, err)
	}

	result, err := h.uc.AttachResume(c.UserContext(), uint(id), text)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    statusForError(err),
			Message: clientMessage(err),
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Resume processed",
		Data: dto.ProfileEnrichResponse{
			UserID:        result.UserID,
			ResumeSummary: result.ResumeSummary,
			Skills:        result.Skills,
		},
	})
}

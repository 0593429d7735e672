package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/prajwalts/interviewdost/internal/dto"
	"github.com/prajwalts/interviewdost/internal/model"
	"github.com/prajwalts/interviewdost/internal/response"
	"github.com/prajwalts/interviewdost/internal/usecase"
	"github.com/prajwalts/interviewdost/internal/util"
)

type UserHandler struct {
	userUc    *usecase.UserUsecase
	profileUc *usecase.ProfileUsecase
}

func NewUserHandler(userUc *usecase.UserUsecase, profileUc *usecase.ProfileUsecase) *UserHandler {
	return &UserHandler{userUc: userUc, profileUc: profileUc}
}

func (h *UserHandler) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api/users")
	api.Post("/", h.Create)
	api.Get("/", h.List)
	api.Get("/:id", h.Get)
	api.Post("/:id/skills", h.AddSkills)
	api.Get("/:id/similar", h.Similar)
}

func (h *UserHandler) Create(c *fiber.Ctx) error {
	var req dto.UserCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}

	role := "candidate"
	if req.Role != nil && *req.Role != "" {
		role = *req.Role
	}
	user, err := h.userUc.CreateUser(req.Name, req.Email, req.Password, role)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    statusForError(err),
			Message: clientMessage(err),
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "User created",
		Data:    fiber.Map{"user_id": user.ID},
	})
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid user id",
		}, err)
	}

	user, skills, err := h.userUc.GetUser(uint(id))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    statusForError(err),
			Message: clientMessage(err),
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "User detail",
		Data:    userDTO(user, skills),
	})
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	pageSize := c.QueryInt("page_size", 20)
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	users, total, err := h.userUc.ListUsers(page, pageSize)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    statusForError(err),
			Message: clientMessage(err),
		}, err)
	}

	data := make([]dto.UserDTO, 0, len(users))
	for i := range users {
		data = append(data, userDTO(&users[i], nil))
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message:    "User list",
		Data:       data,
		Pagination: response.NewPagination(page, pageSize, len(users), total),
	})
}

func (h *UserHandler) AddSkills(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid user id",
		}, err)
	}

	var req dto.AddSkillsRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}

	// The user must exist before links are written.
	user, _, err := h.userUc.GetUser(uint(id))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    statusForError(err),
			Message: clientMessage(err),
		}, err)
	}

	canonical, err := h.profileUc.RegisterSkills(user.ID, req.SkillNames, req.Proficiencies)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    statusForError(err),
			Message: clientMessage(err),
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Skills registered",
		Data:    fiber.Map{"user_id": user.ID, "skills": canonical},
	})
}

func (h *UserHandler) Similar(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid user id",
		}, err)
	}

	users, err := h.profileUc.SimilarCandidates(uint(id), c.QueryInt("top_k", 5))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    statusForError(err),
			Message: clientMessage(err),
		}, err)
	}

	data := make([]dto.UserDTO, 0, len(users))
	for i := range users {
		data = append(data, userDTO(&users[i], nil))
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Similar candidates",
		Data:    data,
	})
}

func userDTO(user *model.User, skills []model.UserSkill) dto.UserDTO {
	out := dto.UserDTO{
		UserID:        user.ID,
		Name:          user.Name,
		Email:         user.Email,
		Role:          user.Role,
		ResumeSummary: user.ResumeSummary,
	}
	for _, link := range skills {
		out.Skills = append(out.Skills, dto.UserSkillDTO{
			SkillID:     link.SkillID,
			SkillName:   link.Skill.SkillName,
			Proficiency: link.Proficiency,
		})
	}
	return out
}

package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prajwalts/interviewdost/internal/dto"
	"github.com/prajwalts/interviewdost/internal/middleware"
	"github.com/prajwalts/interviewdost/internal/usecase"
	"github.com/prajwalts/interviewdost/internal/util"
)

type AuthHandler struct {
	uc *usecase.UserUsecase
}

func NewAuthHandler(uc *usecase.UserUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

func (h *AuthHandler) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api/auth", middleware.RateLimiter(10, 1*time.Minute))
	api.Post("/register", h.Register)
	api.Post("/login", h.Login)
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}

	user, err := h.uc.Register(req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    statusForError(err),
			Message: clientMessage(err),
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "User registered",
		Data:    userDTO(user, nil),
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}

	user, token, err := h.uc.Login(req.Email, req.Password)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    statusForError(err),
			Message: clientMessage(err),
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Login successful",
		Data: dto.LoginResponse{
			AccessToken: token,
			TokenType:   "bearer",
			User:        userDTO(user, nil),
		},
	})
}

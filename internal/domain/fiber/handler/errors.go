package handler

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/prajwalts/interviewdost/internal/repository"
	"github.com/prajwalts/interviewdost/internal/service"
	"github.com/prajwalts/interviewdost/internal/usecase"
)

// statusForError maps domain errors onto HTTP statuses: validation failures
// to 400, missing references to 404, conversation-provider failures to 502.
func statusForError(err error) int {
	var providerErr *service.ProviderError
	switch {
	case errors.Is(err, usecase.ErrInterviewerRequired),
		errors.Is(err, usecase.ErrAnswerTextRequired),
		errors.Is(err, usecase.ErrSystemMessageRequired),
		errors.Is(err, usecase.ErrConversationNotLinked),
		errors.Is(err, usecase.ErrEmailRequired),
		errors.Is(err, usecase.ErrPasswordRequired),
		errors.Is(err, usecase.ErrProficiencyMismatch):
		return fiber.StatusBadRequest
	case errors.Is(err, usecase.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, usecase.ErrEmailTaken):
		return fiber.StatusConflict
	case errors.Is(err, usecase.ErrInterviewerNotFound),
		errors.Is(err, usecase.ErrNoResumeEmbedding),
		errors.Is(err, repository.ErrInterviewNotFound),
		errors.Is(err, repository.ErrQuestionNotFound),
		errors.Is(err, repository.ErrFeedbackNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		return fiber.StatusNotFound
	case errors.As(err, &providerErr):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// clientMessage keeps raw internals out of client-facing messages: known
// domain errors pass through, provider errors are summarized to their
// status, everything else becomes a generic message.
func clientMessage(err error) string {
	var providerErr *service.ProviderError
	if errors.As(err, &providerErr) {
		return fmt.Sprintf("conversation provider error (status %d)", providerErr.StatusCode)
	}
	if statusForError(err) != fiber.StatusInternalServerError {
		return err.Error()
	}
	return "internal server error"
}

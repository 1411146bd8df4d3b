package httpserver

import (
	"errors"

	"github.com/dmitrijs2005/envmon/internal/common"
	"github.com/dmitrijs2005/envmon/internal/server/metrics"
	"github.com/dmitrijs2005/envmon/internal/server/models"
	"github.com/dmitrijs2005/envmon/internal/server/services"
	"github.com/gofiber/fiber/v2"
)

type signUpRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type logInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	Message  string            `json:"message"`
	UserData models.PublicUser `json:"userData"`
}

func (s *HTTPServer) signUp(c *fiber.Ctx) error {

	var req signUpRequest
	if err := c.BodyParser(&req); err != nil {
		return message(c, fiber.StatusBadRequest, msgInvalidBody)
	}

	user, err := s.users.SignUp(c.UserContext(), services.SignUpInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})

	if err != nil {
		switch {
		case errors.Is(err, common.ErrPasswordTooLong):
			s.metrics.RecordAuthAttempt(metrics.OperationSignUp, metrics.OutcomeInvalidInput)
			return message(c, fiber.StatusBadRequest, msgPasswordTooLong)
		case errors.Is(err, common.ErrorValidation):
			s.metrics.RecordAuthAttempt(metrics.OperationSignUp, metrics.OutcomeInvalidInput)
			return message(c, fiber.StatusBadRequest, msgAllFieldsRequired)
		case errors.Is(err, common.ErrorAlreadyExists):
			s.metrics.RecordAuthAttempt(metrics.OperationSignUp, metrics.OutcomeDuplicate)
			return message(c, fiber.StatusConflict, msgEmailTaken)
		default:
			s.metrics.RecordAuthAttempt(metrics.OperationSignUp, metrics.OutcomeError)
			s.logger.Error(c.UserContext(), "signup failed", "error", err)
			return message(c, fiber.StatusInternalServerError, msgInternal)
		}
	}

	s.metrics.RecordAuthAttempt(metrics.OperationSignUp, metrics.OutcomeSuccess)
	s.logger.Info(c.UserContext(), "Registered", "user_id", user.ID)

	return c.Status(fiber.StatusCreated).JSON(userResponse{Message: msgSuccess, UserData: user.Public()})
}

func (s *HTTPServer) logIn(c *fiber.Ctx) error {

	var req logInRequest
	if err := c.BodyParser(&req); err != nil {
		return message(c, fiber.StatusBadRequest, msgInvalidBody)
	}

	session, err := s.users.LogIn(c.UserContext(), req.Email, req.Password)

	if err != nil {
		switch {
		case errors.Is(err, common.ErrorValidation):
			s.metrics.RecordAuthAttempt(metrics.OperationLogIn, metrics.OutcomeInvalidInput)
			return message(c, fiber.StatusBadRequest, msgAllFieldsRequired)
		case errors.Is(err, common.ErrInvalidCredentials):
			s.metrics.RecordAuthAttempt(metrics.OperationLogIn, metrics.OutcomeInvalidCredentials)
			return message(c, fiber.StatusNotFound, msgInvalidCredentials)
		case errors.Is(err, common.ErrAccountNotVerified):
			s.metrics.RecordAuthAttempt(metrics.OperationLogIn, metrics.OutcomeNotVerified)
			return message(c, fiber.StatusNotFound, msgNotVerified)
		default:
			s.metrics.RecordAuthAttempt(metrics.OperationLogIn, metrics.OutcomeError)
			s.logger.Error(c.UserContext(), "login failed", "error", err)
			return message(c, fiber.StatusInternalServerError, msgInternal)
		}
	}

	s.sessions.Attach(c, session.Token, session.ExpiresAt)
	s.metrics.RecordAuthAttempt(metrics.OperationLogIn, metrics.OutcomeSuccess)

	return c.Status(fiber.StatusOK).JSON(userResponse{Message: msgSuccess, UserData: session.User.Public()})
}

func (s *HTTPServer) logOut(c *fiber.Ctx) error {
	s.sessions.Clear(c)
	return message(c, fiber.StatusOK, msgSuccess)
}

func (s *HTTPServer) me(c *fiber.Ctx) error {
	claims := sessionClaims(c)
	if claims == nil {
		return message(c, fiber.StatusUnauthorized, msgUnauthorized)
	}

	user, err := s.users.Profile(c.UserContext(), claims.Email)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		s.logger.Error(c.UserContext(), "profile lookup failed", "error", err)
		return message(c, fiber.StatusInternalServerError, msgInternal)
	}
	if err != nil || user.ID != claims.Subject {
		s.sessions.Clear(c)
		return message(c, fiber.StatusUnauthorized, msgUnauthorized)
	}

	return c.Status(fiber.StatusOK).JSON(userResponse{Message: msgSuccess, UserData: user.Public()})
}

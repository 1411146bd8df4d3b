package httpserver

import "github.com/gofiber/fiber/v2"

const (
	msgSuccess            = "Success"
	msgAllFieldsRequired  = "All fields are required"
	msgEmailTaken         = "Email is already registered"
	msgPasswordTooLong    = "Password must be at most 72 bytes"
	msgInvalidCredentials = "Invalid Login Credentials"
	msgNotVerified        = "Please your Verify Account to Login"
	msgInvalidBody        = "Invalid request body"
	msgUnauthorized       = "Unauthorized"
	msgInternal           = "Internal Server Error"
)

type messageResponse struct {
	Message string `json:"message"`
}

func message(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(messageResponse{Message: msg})
}

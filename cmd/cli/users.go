package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/envmon/internal/common"
	"github.com/dmitrijs2005/envmon/internal/server/auth"
	"github.com/dmitrijs2005/envmon/internal/server/services"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readPassword prompts on a terminal without echo and falls back to one line
// of stdin otherwise.
var readPassword = func(cmd *cobra.Command) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		cmd.Print("Password: ")
		b, err := term.ReadPassword(fd)
		cmd.Println()
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newUserService(cmd *cobra.Command) (*services.UserService, func(), error) {
	c := loadConfig()

	db, rm, err := openStorage(cmd.Context(), c)
	if err != nil {
		return nil, nil, err
	}

	closeFn := func() {
		if db != nil {
			db.Close()
		}
	}

	return services.NewUserService(db, rm, auth.NewBcryptHasher(c.BcryptCost), nil), closeFn, nil
}

// NewVerifyCmd creates the verify subcommand.
func NewVerifyCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Mark an account as verified so it can log in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, closeFn, err := newUserService(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			if err := svc.VerifyAccount(cmd.Context(), email); err != nil {
				if errors.Is(err, common.ErrorNotFound) {
					return fmt.Errorf("no account registered for %q", email)
				}
				return err
			}

			cmd.Printf("Verified %s\n", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

// NewCreateUserCmd creates the create-user subcommand.
func NewCreateUserCmd() *cobra.Command {
	var email, firstName, lastName string
	var verified bool

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Register an account; the password is read from the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := readPassword(cmd)
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}

			svc, closeFn, err := newUserService(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			user, err := svc.SignUp(cmd.Context(), services.SignUpInput{
				FirstName: firstName,
				LastName:  lastName,
				Email:     email,
				Password:  password,
			})
			switch {
			case errors.Is(err, common.ErrorValidation):
				return errors.New("all fields are required")
			case errors.Is(err, common.ErrorAlreadyExists):
				return fmt.Errorf("email %q is already registered", email)
			case err != nil:
				return err
			}

			if verified {
				if err := svc.VerifyAccount(cmd.Context(), user.Email); err != nil {
					return err
				}
			}

			cmd.Printf("Created %s (id %s, verified: %t)\n", user.Email, user.ID, verified)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&firstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "last name")
	cmd.Flags().BoolVar(&verified, "verified", false, "mark the account verified immediately")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/tutorhub/internal/logger"
	"github.com/spigell/tutorhub/internal/marketplace"
	"github.com/spigell/tutorhub/internal/session"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session",
	Run: func(cmd *cobra.Command, _ []string) {
		login(cmd)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Run: func(_ *cobra.Command, _ []string) {
		e := setup()
		if err := e.session.Clear(); err != nil {
			e.logger.Fatal("clearing the session", zap.Error(err))
		}
		e.logger.Info("signed out")
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed in user",
	Run: func(cmd *cobra.Command, _ []string) {
		whoami(cmd)
	},
}

var passwordCmd = &cobra.Command{
	Use:   "password",
	Short: "Recover a forgotten password",
}

var forgotPasswordCmd = &cobra.Command{
	Use:   "forgot",
	Short: "Send a password reset email",
	Run: func(cmd *cobra.Command, _ []string) {
		e := setup()
		email, _ := cmd.Flags().GetString("email")

		msg, err := e.api.ForgotPassword(context.Background(), ask(e, "Email", email, false))
		if err != nil {
			e.fail("requesting a password reset", err)
		}
		e.logger.Info("password reset requested", zap.String("message", msg))
	},
}

var resetPasswordCmd = &cobra.Command{
	Use:   "reset",
	Short: "Set a new password with the token from the reset email",
	Run: func(cmd *cobra.Command, _ []string) {
		e := setup()
		token, _ := cmd.Flags().GetString("token")
		password, _ := cmd.Flags().GetString("password")

		msg, err := e.api.ResetPassword(context.Background(), token, ask(e, "New password", password, true))
		if err != nil {
			e.fail("resetting the password", err)
		}
		e.logger.Info("password changed", zap.String("message", msg), zap.String("hint", loginHint))
	},
}

var verifyEmailCmd = &cobra.Command{
	Use:   "verify-email",
	Short: "Confirm an email address with the token from the verification email",
	Run: func(cmd *cobra.Command, _ []string) {
		e := setup()
		token, _ := cmd.Flags().GetString("token")

		msg, err := e.api.VerifyEmail(context.Background(), token)
		if err != nil {
			e.fail("verifying the email", err)
		}

		if user := e.session.User(); user != nil {
			user.Verified = true
			if err := e.session.SetUser(user); err != nil {
				e.logger.Warn("updating the session", zap.Error(err))
			}
		}
		e.logger.Info("email verified", zap.String("message", msg))
	},
}

var resendVerificationCmd = &cobra.Command{
	Use:   "resend-verification",
	Short: "Send the verification email again",
	Run: func(cmd *cobra.Command, _ []string) {
		e := setup()
		email, _ := cmd.Flags().GetString("email")
		if email == "" {
			if u := e.session.User(); u != nil {
				email = u.Email
			}
		}

		msg, err := e.api.ResendVerification(context.Background(), ask(e, "Email", email, false))
		if err != nil {
			e.fail("resending the verification email", err)
		}
		e.logger.Info("verification email sent", zap.String("message", msg))
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, passwordCmd, verifyEmailCmd, resendVerificationCmd)
	passwordCmd.AddCommand(forgotPasswordCmd, resetPasswordCmd)

	loginCmd.Flags().StringP("email", "e", "", "account email (prompted when empty)")
	loginCmd.Flags().StringP("password", "p", "", "account password (prompted when empty)")

	forgotPasswordCmd.Flags().StringP("email", "e", "", "account email")

	resetPasswordCmd.Flags().StringP("token", "t", "", "token from the reset email")
	resetPasswordCmd.Flags().StringP("password", "p", "", "new password (prompted when empty)")
	resetPasswordCmd.MarkFlagRequired("token")

	verifyEmailCmd.Flags().StringP("token", "t", "", "token from the verification email")
	verifyEmailCmd.MarkFlagRequired("token")

	resendVerificationCmd.Flags().StringP("email", "e", "", "account email (defaults to the signed in user)")

	whoamiCmd.Flags().Bool("offline", false, "print the stored session without asking the backend")
}

func login(cmd *cobra.Command) {
	e := setup()
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")

	email = ask(e, "Email", email, false)
	password = ask(e, "Password", password, true)

	res, err := e.api.Login(context.Background(), email, password)
	if err != nil {
		e.fail("signing in", err)
	}

	user := sessionUser(res.User)
	if user.Email == "" {
		user.Email = strings.TrimSpace(email)
	}

	if err := e.session.Save(res.Token, user); err != nil {
		e.logger.Fatal("saving the session", zap.Error(err))
	}

	log := logger.WithUser(e.logger, user.Email)
	log.Info("signed in", zap.String("role", e.session.Role()))
	if !user.Verified {
		log.Warn("email is not verified", zap.String("hint", "run 'tutorhub resend-verification'"))
	}
}

func whoami(cmd *cobra.Command) {
	e := setup()
	user := e.requireRole("")

	if offline, _ := cmd.Flags().GetBool("offline"); !offline {
		fresh, err := e.api.CurrentUser(context.Background())
		if err != nil {
			e.fail("getting the current user", err)
		}

		user = sessionUser(fresh)
		if err := e.session.SetUser(user); err != nil {
			e.logger.Warn("updating the session", zap.Error(err))
		}
	}

	renderUser(cmd.OutOrStdout(), user)
}

// ask returns value, or prompts for it when empty.
func ask(e *env, label, value string, secret bool) string {
	if strings.TrimSpace(value) != "" {
		return value
	}

	p := promptui.Prompt{
		Label: label,
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("%s is required", strings.ToLower(label))
			}
			return nil
		},
	}
	if secret {
		p.Mask = '*'
	}

	result, err := p.Run()
	if err != nil {
		e.logger.Fatal("exiting", zap.Error(err))
	}
	return result
}

func sessionUser(u *marketplace.User) *session.User {
	if u == nil {
		return &session.User{}
	}

	return &session.User{
		ID:       u.Identity(),
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
		Verified: u.IsVerified,
	}
}

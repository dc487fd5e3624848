package marketplace

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	loginPath              = "/auth/login"
	currentUserPath        = "/auth/me"
	forgotPasswordPath     = "/auth/forgot-password"
	resetPasswordPath      = "/auth/reset-password/"
	verifyEmailPath        = "/auth/verify-email/"
	resendVerificationPath = "/auth/resend-verification"
	updateProfilePath      = "/auth/update-profile"
)

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

type User struct {
	ID         string    `json:"_id"`
	AltID      string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Phone      string    `json:"phone"`
	Location   string    `json:"location"`
	Bio        string    `json:"bio"`
	IsVerified bool      `json:"isVerified"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Identity returns whichever id field the backend populated.
func (u *User) Identity() string {
	if u == nil {
		return ""
	}
	if u.ID != "" {
		return u.ID
	}
	return u.AltID
}

type LoginResult struct {
	Token string
	User  *User
}

type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type emailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type passwordRequest struct {
	Password string `json:"password" validate:"required,password"`
}

// ProfileUpdate carries the fields a user may change. Empty fields are left untouched.
type ProfileUpdate struct {
	Name       string   `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Phone      string   `json:"phone,omitempty" validate:"omitempty,e164"`
	Location   string   `json:"location,omitempty" validate:"omitempty,max=200"`
	Bio        string   `json:"bio,omitempty" validate:"omitempty,max=1000"`
	HourlyRate *float64 `json:"hourlyRate,omitempty" validate:"omitempty,gt=0"`
	Subjects   []string `json:"subjects,omitempty" validate:"omitempty,dive,required"`
}

func (p *ProfileUpdate) IsEmpty() bool {
	return p == nil || (p.Name == "" && p.Phone == "" && p.Location == "" && p.Bio == "" &&
		p.HourlyRate == nil && len(p.Subjects) == 0)
}

var errEmptyProfileUpdate = errors.New("profile update has no fields set")

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	req := credentials{Email: strings.TrimSpace(email), Password: password}
	if err := c.validator.Struct(req); err != nil {
		return nil, err
	}

	env, err := c.send(ctx, http.MethodPost, loginPath, req)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	token := env.Token
	if token == "" {
		token, _ = nested(env.Data, "token").(string)
	}
	if token == "" {
		return nil, errors.New("login: backend returned no token")
	}

	user, err := envelopeUser(env)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	return &LoginResult{Token: token, User: user}, nil
}

func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	env, err := c.get(ctx, currentUserPath, nil)
	if err != nil {
		return nil, fmt.Errorf("get current user: %w", err)
	}

	user, err := envelopeUser(env)
	if err != nil {
		return nil, fmt.Errorf("get current user: %w", err)
	}
	if user == nil {
		return nil, errors.New("get current user: backend returned no user")
	}

	return user, nil
}

// ForgotPassword asks the backend to email a reset link. The returned string
// is the backend message.
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	req := emailRequest{Email: strings.TrimSpace(email)}
	if err := c.validator.Struct(req); err != nil {
		return "", err
	}

	env, err := c.send(ctx, http.MethodPost, forgotPasswordPath, req)
	if err != nil {
		return "", fmt.Errorf("forgot password: %w", err)
	}

	return env.message(), nil
}

func (c *Client) ResetPassword(ctx context.Context, token, password string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", errors.New("reset token is required")
	}

	req := passwordRequest{Password: password}
	if err := c.validator.Struct(req); err != nil {
		return "", err
	}

	env, err := c.send(ctx, http.MethodPost, resetPasswordPath+url.PathEscape(token), req)
	if err != nil {
		return "", fmt.Errorf("reset password: %w", err)
	}

	return env.message(), nil
}

func (c *Client) VerifyEmail(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", errors.New("verification token is required")
	}

	env, err := c.get(ctx, verifyEmailPath+url.PathEscape(token), nil)
	if err != nil {
		return "", fmt.Errorf("verify email: %w", err)
	}

	return env.message(), nil
}

func (c *Client) ResendVerification(ctx context.Context, email string) (string, error) {
	req := emailRequest{Email: strings.TrimSpace(email)}
	if err := c.validator.Struct(req); err != nil {
		return "", err
	}

	env, err := c.send(ctx, http.MethodPost, resendVerificationPath, req)
	if err != nil {
		return "", fmt.Errorf("resend verification: %w", err)
	}

	return env.message(), nil
}

// UpdateProfile sends the changed fields and returns the updated user.
func (c *Client) UpdateProfile(ctx context.Context, update *ProfileUpdate) (*User, error) {
	if update.IsEmpty() {
		return nil, errEmptyProfileUpdate
	}
	if err := c.validator.Struct(update); err != nil {
		return nil, err
	}

	env, err := c.send(ctx, http.MethodPut, updateProfilePath, update)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	return envelopeUser(env)
}

// envelopeUser reads the user from the user field, data.user or data itself.
func envelopeUser(env *envelope) (*User, error) {
	raw := env.User
	if raw == nil {
		raw = nested(env.Data, "user")
	}
	if raw == nil {
		raw = env.Data
	}
	if raw == nil {
		return nil, nil
	}

	var user User
	if err := decode(raw, &user); err != nil {
		return nil, fmt.Errorf("decoding user: %w", err)
	}
	return &user, nil
}

func nested(data any, key string) any {
	m, ok := data.(map[string]any)
	if !ok {
		return nil
	}
	return m[key]
}

package marketplace

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	c, calls := newTestClient(t, "", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{
			"success": true,
			"token": "jwt-token",
			"user": {"_id": "u1", "name": "Sam", "email": "sam@example.com", "role": "student", "isVerified": true}
		}`)
	})

	res, err := c.Login(context.Background(), " sam@example.com ", "secret")
	require.NoError(t, err)

	call := (*calls)[0]
	assert.Equal(t, http.MethodPost, call.method)
	assert.Equal(t, "/api/auth/login", call.path)
	assert.Equal(t, "sam@example.com", call.body["email"])
	assert.Equal(t, "secret", call.body["password"])
	assert.Equal(t, "application/json", call.header.Get("Content-Type"))

	assert.Equal(t, "jwt-token", res.Token)
	require.NotNil(t, res.User)
	assert.Equal(t, "u1", res.User.Identity())
	assert.Equal(t, RoleStudent, res.User.Role)
	assert.True(t, res.User.IsVerified)
}

func TestLoginTokenNestedInData(t *testing.T) {
	c, _ := newTestClient(t, "", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"success": true, "data": {"token": "nested", "user": {"id": "u9", "role": "teacher"}}}`)
	})

	res, err := c.Login(context.Background(), "t@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "nested", res.Token)
	assert.Equal(t, "u9", res.User.Identity())
	assert.Equal(t, RoleTeacher, res.User.Role)
}

func TestLoginWithoutToken(t *testing.T) {
	c, _ := newTestClient(t, "", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"success": true}`)
	})

	_, err := c.Login(context.Background(), "t@example.com", "pw")
	assert.ErrorContains(t, err, "no token")
}

func TestCurrentUser(t *testing.T) {
	c, calls := newTestClient(t, "tok", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"success": true, "data": {"_id": "u1", "email": "sam@example.com"}}`)
	})

	user, err := c.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/api/auth/me", (*calls)[0].path)
	assert.Equal(t, "sam@example.com", user.Email)
}

func TestCurrentUserUnauthorized(t *testing.T) {
	c, _ := newTestClient(t, "expired", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"success": false, "message": "Not authorized"}`)
	})

	_, err := c.CurrentUser(context.Background())
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestPasswordAndVerificationFlows(t *testing.T) {
	c, calls := newTestClient(t, "", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"success": true, "message": "done"}`)
	})
	ctx := context.Background()

	msg, err := c.ForgotPassword(ctx, "sam@example.com")
	require.NoError(t, err)
	assert.Equal(t, "done", msg)

	_, err = c.ResetPassword(ctx, "abc/123", "n3wpassword")
	require.NoError(t, err)

	_, err = c.VerifyEmail(ctx, "verify-token")
	require.NoError(t, err)

	_, err = c.ResendVerification(ctx, "sam@example.com")
	require.NoError(t, err)

	require.Len(t, *calls, 4)
	assert.Equal(t, "/api/auth/forgot-password", (*calls)[0].path)
	assert.Equal(t, "/api/auth/reset-password/abc/123", (*calls)[1].path)
	assert.Equal(t, "n3wpassword", (*calls)[1].body["password"])
	assert.Equal(t, http.MethodGet, (*calls)[2].method)
	assert.Equal(t, "/api/auth/verify-email/verify-token", (*calls)[2].path)
	assert.Equal(t, "/api/auth/resend-verification", (*calls)[3].path)
	assert.Equal(t, "sam@example.com", (*calls)[3].body["email"])
}

func TestPasswordFlowsRejectBadInput(t *testing.T) {
	c, calls := newTestClient(t, "", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"success": true}`)
	})
	ctx := context.Background()

	_, err := c.ResetPassword(ctx, "", "n3wpassword")
	assert.Error(t, err)

	_, err = c.ResetPassword(ctx, "tok", "short")
	assert.ErrorContains(t, err, "password")

	_, err = c.VerifyEmail(ctx, "  ")
	assert.Error(t, err)

	_, err = c.ForgotPassword(ctx, "nope")
	assert.ErrorContains(t, err, "email")

	assert.Empty(t, *calls)
}

func TestUpdateProfile(t *testing.T) {
	c, calls := newTestClient(t, "tok", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"success": true, "user": {"_id": "u1", "name": "Samantha", "location": "York"}}`)
	})

	rate := 35.0
	user, err := c.UpdateProfile(context.Background(), &ProfileUpdate{
		Name:       "Samantha",
		Location:   "York",
		HourlyRate: &rate,
		Subjects:   []string{"Maths", "Physics"},
	})
	require.NoError(t, err)

	call := (*calls)[0]
	assert.Equal(t, http.MethodPut, call.method)
	assert.Equal(t, "/api/auth/update-profile", call.path)
	assert.Equal(t, "Samantha", call.body["name"])
	assert.Equal(t, 35.0, call.body["hourlyRate"])
	assert.NotContains(t, call.body, "phone")
	assert.Equal(t, "York", user.Location)
}

func TestUpdateProfileValidation(t *testing.T) {
	c, calls := newTestClient(t, "tok", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"success": true}`)
	})

	_, err := c.UpdateProfile(context.Background(), &ProfileUpdate{})
	assert.ErrorIs(t, err, errEmptyProfileUpdate)

	_, err = c.UpdateProfile(context.Background(), nil)
	assert.ErrorIs(t, err, errEmptyProfileUpdate)

	negative := -1.0
	_, err = c.UpdateProfile(context.Background(), &ProfileUpdate{Phone: "12", HourlyRate: &negative})
	assert.ErrorContains(t, err, "phone")
	assert.ErrorContains(t, err, "hourlyRate")

	assert.Empty(t, *calls)
}

package controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/team-nuri/api-go/models"
)

func TestSignUpVerifyLogin_EndToEnd(t *testing.T) {
	db, r, sender := setupTest(t)

	// Sign up: account starts inactive.
	body := `{"email": "a@x.com", "password": "password123", "nickname": "newbie"}`
	w := doRequest(t, r, http.MethodPost, "/api/signup", body, "")
	require.Equal(t, http.StatusCreated, w.Code)

	var user models.User
	require.NoError(t, db.Where("email = ?", "a@x.com").First(&user).Error)
	assert.False(t, user.IsActive)

	// Notification settings row is created alongside the account.
	var settingsCount int64
	db.Model(&models.EmailNotificationSetting{}).Where("user_id = ?", user.ID).Count(&settingsCount)
	assert.Equal(t, int64(1), settingsCount)

	// Login before verification is rejected.
	loginBody := `{"email": "a@x.com", "password": "password123"}`
	w = doRequest(t, r, http.MethodPost, "/api/login", loginBody, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Follow the verification link from the email.
	emails := sender.waitForEmails(t, 1)
	assert.Equal(t, "a@x.com", emails[0].To)
	index := strings.Index(emails[0].Body, "/api/verify-email/")
	require.GreaterOrEqual(t, index, 0, "verification email must carry the link")
	verifyPath := strings.TrimSpace(emails[0].Body[index:])

	w = doRequest(t, r, http.MethodGet, verifyPath, "", "")
	assert.Equal(t, http.StatusFound, w.Code)

	require.NoError(t, db.First(&user, user.ID).Error)
	assert.True(t, user.IsActive)

	// Correct password now logs in with a token pair.
	w = doRequest(t, r, http.MethodPost, "/api/login", loginBody, "")
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.NotEmpty(t, response.AccessToken)
	assert.NotEmpty(t, response.RefreshToken)

	// Wrong password still fails.
	w = doRequest(t, r, http.MethodPost, "/api/login", `{"email": "a@x.com", "password": "wrong-password"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	db, r, _ := setupTest(t)

	createUser(t, db, "taken@example.com", "password123", true)

	body := `{"email": "taken@example.com", "password": "password123", "nickname": "dupe"}`
	w := doRequest(t, r, http.MethodPost, "/api/signup", body, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignUp_RejectsUnknownInterest(t *testing.T) {
	_, r, _ := setupTest(t)

	body := `{"email": "a@x.com", "password": "password123", "nickname": "n", "interest": "astrology"}`
	w := doRequest(t, r, http.MethodPost, "/api/signup", body, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRefreshToken_Rotation(t *testing.T) {
	db, r, _ := setupTest(t)

	user := createUser(t, db, "user@example.com", "password123", true)
	_ = user

	w := doRequest(t, r, http.MethodPost, "/api/login", `{"email": "user@example.com", "password": "password123"}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	var loginResponse struct {
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loginResponse))

	body := fmt.Sprintf(`{"refresh_token": %q}`, loginResponse.RefreshToken)
	w = doRequest(t, r, http.MethodPost, "/api/refresh-token", body, "")
	require.Equal(t, http.StatusOK, w.Code)

	var refreshResponse struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &refreshResponse))
	assert.NotEmpty(t, refreshResponse.AccessToken)

	// The old refresh token was rotated out.
	w = doRequest(t, r, http.MethodPost, "/api/refresh-token", body, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogout_DeletesRefreshToken(t *testing.T) {
	db, r, _ := setupTest(t)

	user := createUser(t, db, "user@example.com", "password123", true)

	w := doRequest(t, r, http.MethodPost, "/api/login", `{"email": "user@example.com", "password": "password123"}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	var loginResponse struct {
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loginResponse))

	body := fmt.Sprintf(`{"refresh_token": %q}`, loginResponse.RefreshToken)
	w = doRequest(t, r, http.MethodPost, "/api/logout", body, authHeader(t, user))
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.RefreshToken{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Zero(t, count)
}

func TestPasswordResetRequest_NoAccountEnumeration(t *testing.T) {
	db, r, sender := setupTest(t)

	createUser(t, db, "known@example.com", "password123", true)

	// Unknown email gets the same success-shaped answer and no mail.
	w := doRequest(t, r, http.MethodPut, "/api/password-reset-request", `{"email": "unknown@example.com"}`, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodPut, "/api/password-reset-request", `{"email": "known@example.com"}`, "")
	assert.Equal(t, http.StatusOK, w.Code)

	emails := sender.waitForEmails(t, 1)
	assert.Len(t, emails, 1)
	assert.Equal(t, "known@example.com", emails[0].To)
}

func TestPasswordResetConfirm_FullFlow(t *testing.T) {
	db, r, sender := setupTest(t)

	createUser(t, db, "user@example.com", "oldpassword1", true)

	w := doRequest(t, r, http.MethodPut, "/api/password-reset-request", `{"email": "user@example.com"}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	emails := sender.waitForEmails(t, 1)
	index := strings.Index(emails[0].Body, "/api/password-reset-check/")
	require.GreaterOrEqual(t, index, 0)
	checkPath := strings.TrimSpace(emails[0].Body[index:])

	// The check endpoint redirects towards the confirm page.
	w = doRequest(t, r, http.MethodGet, checkPath, "", "")
	assert.Equal(t, http.StatusFound, w.Code)

	// Pull uid and token out of the link path.
	parts := strings.Split(strings.TrimPrefix(checkPath, "/api/password-reset-check/"), "/")
	require.Len(t, parts, 2)

	body := fmt.Sprintf(`{"uid": %q, "token": %q, "password": "newpassword1"}`, parts[0], parts[1])
	w = doRequest(t, r, http.MethodPut, "/api/password-reset-confirm", body, "")
	require.Equal(t, http.StatusOK, w.Code)

	// Old password is dead, new one works.
	w = doRequest(t, r, http.MethodPost, "/api/login", `{"email": "user@example.com", "password": "oldpassword1"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, r, http.MethodPost, "/api/login", `{"email": "user@example.com", "password": "newpassword1"}`, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPasswordResetConfirm_BadToken(t *testing.T) {
	db, r, _ := setupTest(t)

	createUser(t, db, "user@example.com", "password123", true)

	body := `{"uid": "MQ", "token": "this.is.garbage", "password": "newpassword1"}`
	w := doRequest(t, r, http.MethodPut, "/api/password-reset-confirm", body, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPasswordChange_OwnerOnly(t *testing.T) {
	db, r, _ := setupTest(t)

	owner := createUser(t, db, "owner@example.com", "password123", true)
	intruder := createUser(t, db, "intruder@example.com", "password123", true)

	body := `{"current_password": "password123", "new_password": "newpassword1"}`
	path := fmt.Sprintf("/api/password-change/%d", owner.ID)

	w := doRequest(t, r, http.MethodPut, path, body, authHeader(t, intruder))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, r, http.MethodPut, path, body, authHeader(t, owner))
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodPost, "/api/login", `{"email": "owner@example.com", "password": "newpassword1"}`, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPasswordChange_WrongCurrentPassword(t *testing.T) {
	db, r, _ := setupTest(t)

	owner := createUser(t, db, "owner@example.com", "password123", true)

	body := `{"current_password": "not-my-password", "new_password": "newpassword1"}`
	w := doRequest(t, r, http.MethodPut, fmt.Sprintf("/api/password-change/%d", owner.ID), body, authHeader(t, owner))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

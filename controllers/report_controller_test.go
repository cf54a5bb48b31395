package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/team-nuri/api-go/models"
)

func TestReportUser_Recorded(t *testing.T) {
	db, r, _ := setupTest(t)

	reporter := createUser(t, db, "reporter@example.com", "password123", true)
	reported := createUser(t, db, "reported@example.com", "password123", true)

	w := doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/report/%d", reported.ID), "", authHeader(t, reporter))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"suspended":false`)

	var refreshed models.User
	require.NoError(t, db.First(&refreshed, reported.ID).Error)
	assert.Equal(t, uint(1), refreshed.ReportCount)
	assert.True(t, refreshed.IsActive)
}

func TestReportUser_SelfReportForbidden(t *testing.T) {
	db, r, _ := setupTest(t)

	user := createUser(t, db, "self@example.com", "password123", true)

	w := doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/report/%d", user.ID), "", authHeader(t, user))
	assert.Equal(t, http.StatusForbidden, w.Code)

	var count int64
	db.Model(&models.Report{}).Count(&count)
	assert.Zero(t, count)
}

func TestReportUser_SelfReportPaddedIDForbidden(t *testing.T) {
	db, r, _ := setupTest(t)

	user := createUser(t, db, "self@example.com", "password123", true)

	// A zero-padded rendering of the caller's own id must not slip past
	// the self-report check.
	w := doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/report/0%d", user.ID), "", authHeader(t, user))
	assert.Equal(t, http.StatusForbidden, w.Code)

	var count int64
	db.Model(&models.Report{}).Count(&count)
	assert.Zero(t, count)

	var refreshed models.User
	require.NoError(t, db.First(&refreshed, user.ID).Error)
	assert.Zero(t, refreshed.ReportCount)
}

func TestReportUser_InvalidTargetID(t *testing.T) {
	db, r, _ := setupTest(t)

	reporter := createUser(t, db, "reporter@example.com", "password123", true)

	w := doRequest(t, r, http.MethodPost, "/api/report/abc", "", authHeader(t, reporter))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportUser_DuplicateRejected(t *testing.T) {
	db, r, _ := setupTest(t)

	reporter := createUser(t, db, "reporter@example.com", "password123", true)
	reported := createUser(t, db, "reported@example.com", "password123", true)

	path := fmt.Sprintf("/api/report/%d", reported.ID)
	require.Equal(t, http.StatusOK, doRequest(t, r, http.MethodPost, path, "", authHeader(t, reporter)).Code)

	w := doRequest(t, r, http.MethodPost, path, "", authHeader(t, reporter))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// The failed duplicate must not move the counter.
	var refreshed models.User
	require.NoError(t, db.First(&refreshed, reported.ID).Error)
	assert.Equal(t, uint(1), refreshed.ReportCount)
}

func TestReportUser_ThresholdSuspends(t *testing.T) {
	db, r, sender := setupTest(t)

	first := createUser(t, db, "first@example.com", "password123", true)
	second := createUser(t, db, "second@example.com", "password123", true)
	reported := createUser(t, db, "reported@example.com", "password123", true)

	// Content that the cascade must remove.
	article := models.Article{UserID: reported.ID, Title: "hello", Content: "world"}
	require.NoError(t, db.Create(&article).Error)
	require.NoError(t, db.Create(&models.Comment{UserID: reported.ID, ArticleID: article.ID, Content: "mine"}).Error)

	path := fmt.Sprintf("/api/report/%d", reported.ID)
	require.Equal(t, http.StatusOK, doRequest(t, r, http.MethodPost, path, "", authHeader(t, first)).Code)

	w := doRequest(t, r, http.MethodPost, path, "", authHeader(t, second))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"suspended":true`)

	var refreshed models.User
	require.NoError(t, db.First(&refreshed, reported.ID).Error)
	assert.False(t, refreshed.IsActive)

	var reportCount int64
	db.Model(&models.Report{}).Where("reported_user_id = ?", reported.ID).Count(&reportCount)
	assert.Zero(t, reportCount, "reports against the suspended account must be purged")

	var articleCount int64
	db.Model(&models.Article{}).Where("user_id = ?", reported.ID).Count(&articleCount)
	assert.Zero(t, articleCount)

	var commentCount int64
	db.Model(&models.Comment{}).Where("user_id = ?", reported.ID).Count(&commentCount)
	assert.Zero(t, commentCount)

	emails := sender.waitForEmails(t, 1)
	assert.Equal(t, "reported@example.com", emails[0].To)
	assert.Contains(t, emails[0].Subject, "suspended")
}

func TestReportUser_NoCascadeAfterSuspension(t *testing.T) {
	db, r, sender := setupTest(t)

	first := createUser(t, db, "first@example.com", "password123", true)
	second := createUser(t, db, "second@example.com", "password123", true)
	third := createUser(t, db, "third@example.com", "password123", true)
	reported := createUser(t, db, "reported@example.com", "password123", true)

	path := fmt.Sprintf("/api/report/%d", reported.ID)
	require.Equal(t, http.StatusOK, doRequest(t, r, http.MethodPost, path, "", authHeader(t, first)).Code)
	require.Equal(t, http.StatusOK, doRequest(t, r, http.MethodPost, path, "", authHeader(t, second)).Code)
	sender.waitForEmails(t, 1)

	// A report after the crossing is recorded but fires no side effects.
	w := doRequest(t, r, http.MethodPost, path, "", authHeader(t, third))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"suspended":false`)

	assert.Len(t, sender.Emails(), 1, "suspension email must only be sent once")
}

func TestReportUser_UnknownTarget(t *testing.T) {
	db, r, _ := setupTest(t)

	reporter := createUser(t, db, "reporter@example.com", "password123", true)

	w := doRequest(t, r, http.MethodPost, "/api/report/99999", "", authHeader(t, reporter))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReportUser_RequiresAuth(t *testing.T) {
	_, r, _ := setupTest(t)

	w := doRequest(t, r, http.MethodPost, "/api/report/1", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

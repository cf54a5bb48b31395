package controllers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"github.com/team-nuri/api-go/config"
	"github.com/team-nuri/api-go/models"
	"github.com/team-nuri/api-go/routes"
	"github.com/team-nuri/api-go/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// recordingSender captures outbound mail instead of talking SMTP.
type recordingSender struct {
	mu     sync.Mutex
	emails []utils.Email
}

func (r *recordingSender) Send(email utils.Email) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emails = append(r.emails, email)
	return nil
}

func (r *recordingSender) Emails() []utils.Email {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]utils.Email, len(r.emails))
	copy(out, r.emails)
	return out
}

// waitForEmails polls until the async mail worker has delivered n emails.
func (r *recordingSender) waitForEmails(t *testing.T, n int) []utils.Email {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if emails := r.Emails(); len(emails) >= n {
			return emails
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d emails, got %d", n, len(r.Emails()))
	return nil
}

func setupTest(t *testing.T) (*gorm.DB, *gin.Engine, *recordingSender) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret-do-not-use")

	// One shared in-memory database per test.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	sender := &recordingSender{}
	mailer := utils.NewMailerWithSender(sender)
	t.Cleanup(mailer.Close)

	r := gin.New()
	routes.SetupRoutes(r, db, mailer)

	return db, r, sender
}

func createUser(t *testing.T, db *gorm.DB, email, password string, active bool) *models.User {
	t.Helper()

	// bcrypt minimum cost keeps tests fast.
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	hashStr := string(hash)

	user := &models.User{
		Email:    email,
		Password: &hashStr,
		Nickname: strings.Split(email, "@")[0],
		IsActive: active,
	}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&models.EmailNotificationSetting{UserID: user.ID}).Error)
	return user
}

func authHeader(t *testing.T, user *models.User) string {
	t.Helper()
	accessToken, _, err := utils.GenerateTokenPair(user.ID, user.Email, user.IsAdmin)
	require.NoError(t, err)
	return "Bearer " + accessToken
}

func doRequest(t *testing.T, r *gin.Engine, method, path, body, auth string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

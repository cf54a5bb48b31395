package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/team-nuri/api-go/config"
	"github.com/team-nuri/api-go/models"
	"github.com/team-nuri/api-go/utils"
	"gorm.io/gorm"
)

// ReportSuspendThreshold is the report count at which an account is
// suspended and its content removed.
const ReportSuspendThreshold = 2

var (
	errReportedNotFound = errors.New("reported user not found")
	errDuplicateReport  = errors.New("already reported this user")
)

type ReportController struct {
	DB     *gorm.DB
	Mailer *utils.Mailer
}

func NewReportController(db *gorm.DB, mailer *utils.Mailer) *ReportController {
	return &ReportController{DB: db, Mailer: mailer}
}

// ReportUser records a report and, when the reported account crosses the
// threshold while still active, suspends it: is_active flips off, all
// reports against it and all of its articles and comments are deleted, and
// a suspension email is queued. The whole sequence runs in one transaction
// holding a row lock on the reported user, so two near-threshold reports
// cannot both read the same counter.
func (rc *ReportController) ReportUser(c *gin.Context) {
	currentUser := utils.GetUser(c)
	if currentUser == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	parsed, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}
	targetUserID := uint(parsed)

	if currentUser.UserID == targetUserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot report yourself"})
		return
	}

	var suspended bool
	var reportedUser models.User

	err = rc.DB.Transaction(func(tx *gorm.DB) error {
		if err := config.LockForUpdate(tx).First(&reportedUser, targetUserID).Error; err != nil {
			return errReportedNotFound
		}

		var existing int64
		tx.Model(&models.Report{}).
			Where("reporter_user_id = ? AND reported_user_id = ?", currentUser.UserID, reportedUser.ID).
			Count(&existing)
		if existing > 0 {
			return errDuplicateReport
		}

		if err := tx.Create(&models.Report{
			ReporterUserID: currentUser.UserID,
			ReportedUserID: reportedUser.ID,
		}).Error; err != nil {
			return err
		}

		reportedUser.ReportCount++
		if err := tx.Model(&reportedUser).Update("report_count", reportedUser.ReportCount).Error; err != nil {
			return err
		}

		// The cascade fires only on the crossing: an already-suspended
		// account can still accumulate reports without re-triggering it.
		if reportedUser.ReportCount >= ReportSuspendThreshold && reportedUser.IsActive {
			if err := tx.Model(&reportedUser).Update("is_active", false).Error; err != nil {
				return err
			}
			if err := tx.Where("reported_user_id = ?", reportedUser.ID).Delete(&models.Report{}).Error; err != nil {
				return err
			}
			if err := tx.Where("user_id = ?", reportedUser.ID).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("user_id = ?", reportedUser.ID).Delete(&models.Article{}).Error; err != nil {
				return err
			}
			suspended = true
		}

		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, errReportedNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, errDuplicateReport):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Already reported this user"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit report"})
		}
		return
	}

	if suspended {
		rc.Mailer.Enqueue(utils.Email{
			To:      reportedUser.Email,
			Subject: "[Nuri] Account suspended",
			Body: fmt.Sprintf("Hello %s,\n\nYour account has been suspended following repeated reports.\n"+
				"If you have questions, contact support through the help page.", reportedUser.Nickname),
		})

		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"suspended": true,
			"message":   "Report recorded and account suspended",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"suspended": false,
		"message":   "Report recorded",
	})
}

package controllers

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/team-nuri/api-go/config"
	"github.com/team-nuri/api-go/utils"
	"gorm.io/gorm"
)

// UploadController hands out presigned PUT URLs for the two image slots the
// API knows about: profile images and message attachments.
type UploadController struct {
	DB            *gorm.DB
	StorageClient *s3.Client
	StorageConfig *config.StorageConfig
}

type ImageUploadRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	FileSize    int64  `json:"fileSize" binding:"required"`
	Kind        string `json:"kind" binding:"required,oneof=profile message"`
}

type ImageUploadResponse struct {
	UploadURL string `json:"uploadUrl"`
	FileURL   string `json:"fileUrl"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expiresIn"`
}

func NewUploadController(db *gorm.DB) *UploadController {
	storageConfig := config.GetStorageConfig()

	client := s3.New(s3.Options{
		BaseEndpoint: aws.String(storageConfig.Endpoint),
		Credentials: credentials.NewStaticCredentialsProvider(
			storageConfig.AccessKeyID,
			storageConfig.SecretAccessKey,
			"",
		),
		Region: storageConfig.Region,
	})

	return &UploadController{
		DB:            db,
		StorageClient: client,
		StorageConfig: storageConfig,
	}
}

func (uc *UploadController) GetPresignedURL(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var req ImageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !uc.isValidImage(req.ContentType, req.FileSize) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image type or size"})
		return
	}

	key := uc.generateImageKey(user.UserID, req.FileName, req.Kind)

	presignedURL, err := uc.createPresignedURL(key, req.ContentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create upload URL"})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data: ImageUploadResponse{
			UploadURL: presignedURL,
			FileURL:   fmt.Sprintf("%s/%s", uc.StorageConfig.PublicURL, key),
			Key:       key,
			ExpiresIn: 3600,
		},
		Message: "Presigned URL generated successfully",
	})
}

func (uc *UploadController) DeleteImage(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	// Wildcard route params keep their leading slash.
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File key is required"})
		return
	}

	if !uc.verifyImageOwnership(key, user.UserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	input := &s3.DeleteObjectInput{
		Bucket: aws.String(uc.StorageConfig.BucketName),
		Key:    aws.String(key),
	}
	if _, err := uc.StorageClient.DeleteObject(context.TODO(), input); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete file"})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Message: "File deleted successfully"})
}

func (uc *UploadController) isValidImage(contentType string, fileSize int64) bool {
	validTypes := []string{"image/jpeg", "image/jpg", "image/png", "image/webp"}

	validType := false
	for _, validContentType := range validTypes {
		if contentType == validContentType {
			validType = true
			break
		}
	}
	if !validType {
		return false
	}

	return fileSize <= 10*1024*1024
}

func (uc *UploadController) generateImageKey(userID uint, fileName, kind string) string {
	ext := filepath.Ext(fileName)
	id := uuid.New().String()
	timestamp := time.Now().Unix()

	return fmt.Sprintf("images/%s/%d/%d_%s%s", kind, userID, timestamp, id, ext)
}

func (uc *UploadController) createPresignedURL(key, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(uc.StorageConfig.BucketName),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}

	presigner := s3.NewPresignClient(uc.StorageClient)
	req, err := presigner.PresignPutObject(context.TODO(), input, func(opts *s3.PresignOptions) {
		opts.Expires = time.Hour
	})
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

// Key format: images/{kind}/{userID}/{timestamp}_{uuid}{ext}
func (uc *UploadController) verifyImageOwnership(key string, userID uint) bool {
	parts := strings.Split(key, "/")
	if len(parts) < 4 || parts[0] != "images" {
		return false
	}
	return parts[2] == fmt.Sprintf("%d", userID)
}

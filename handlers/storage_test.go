package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubStorage struct{}

func (stubStorage) UploadFile(ctx context.Context, localFilePath, destFolder string) (string, error) {
	return "public-id", nil
}
func (stubStorage) DeleteFile(ctx context.Context, publicID string) error { return nil }
func (stubStorage) GetDownloadURL(resourceType, publicID string) (string, error) {
	return "https://cdn.example.com/" + publicID, nil
}

func TestUploadWithoutStorageServiceReturns503(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/api/storage/upload/profile", nil)
	c.Params = gin.Params{{Key: "bucket", Value: "profile"}}

	h := NewStorageHandler(nil)
	h.UploadFileHandler(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestUploadRejectsUnknownBucket(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/api/storage/upload/backups", nil)
	c.Params = gin.Params{{Key: "bucket", Value: "backups"}}

	h := NewStorageHandler(stubStorage{})
	h.UploadFileHandler(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"medisync/services/storage"

	"github.com/gin-gonic/gin"
)

// StorageHandler handles profile image and license uploads.
type StorageHandler struct {
	StorageSvc storage.StorageService
}

// NewStorageHandler creates a new StorageHandler instance.
func NewStorageHandler(svc storage.StorageService) *StorageHandler {
	return &StorageHandler{StorageSvc: svc}
}

// allowedBuckets maps upload buckets to their destination folders.
var allowedBuckets = map[string]string{
	"profile":  storage.FolderProfileImages,
	"licenses": storage.FolderLicenses,
}

// UploadFileHandler handles doctor media uploads.
func (h *StorageHandler) UploadFileHandler(c *gin.Context) {
	// The Cloudinary client is optional at startup; without it uploads are
	// unavailable rather than a panic.
	if h.StorageSvc == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage is not configured"})
		return
	}

	bucket := c.Param("bucket")
	destFolder, ok := allowedBuckets[bucket]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bucket; allowed values are 'profile' and 'licenses'"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file not provided", "detail": err.Error()})
		return
	}

	tempDir := os.TempDir()
	tempFilePath := filepath.Join(tempDir, fileHeader.Filename)
	if err := c.SaveUploadedFile(fileHeader, tempFilePath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save file", "detail": err.Error()})
		return
	}
	defer os.Remove(tempFilePath)

	publicID, err := h.StorageSvc.UploadFile(c, tempFilePath, destFolder)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload file", "detail": err.Error()})
		return
	}

	downloadURL, err := h.StorageSvc.GetDownloadURL("image", publicID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to construct download URL", "detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "file uploaded successfully",
		"publicId":    publicID,
		"downloadURL": downloadURL,
	})
}

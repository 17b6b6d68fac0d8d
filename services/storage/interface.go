package storage

import "context"

// StorageService defines the interface for media storage operations. Doctors
// upload profile images and license scans through it.
type StorageService interface {
	UploadFile(ctx context.Context, localFilePath, destFolder string) (string, error)
	DeleteFile(ctx context.Context, publicID string) error
	GetDownloadURL(resourceType, publicID string) (string, error)
}

// Upload folders used by the doctor onboarding flow.
const (
	FolderProfileImages = "doctors/profile"
	FolderLicenses      = "doctors/licenses"
)

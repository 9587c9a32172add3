package cloudinary

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Service handles Cloudinary upload and delete operations for report media.
type Service struct {
	cld          *cloudinary.Cloudinary
	uploadFolder string
}

// UploadResult contains the result of a successful upload
type UploadResult struct {
	URL      string
	PublicID string
	FileSize int64
	Format   string
}

var (
	AllowedImageTypes = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
	AllowedVideoTypes = []string{".mp4", ".mov", ".avi", ".webm", ".mkv"}

	MaxImageSize = int64(10 * 1024 * 1024) // 10MB
	MaxVideoSize = int64(50 * 1024 * 1024) // 50MB
)

func NewService(cloudName, apiKey, apiSecret, uploadFolder string) (*Service, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, errors.New("cloudinary credentials are required")
	}

	cloudinaryURL := fmt.Sprintf("cloudinary://%s:%s@%s", apiKey, apiSecret, cloudName)
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary client: %w", err)
	}

	if uploadFolder == "" {
		uploadFolder = "flashreport"
	}

	return &Service{
		cld:          cld,
		uploadFolder: uploadFolder,
	}, nil
}

// UploadImage uploads a report image and returns its URL and public ID.
func (s *Service) UploadImage(ctx context.Context, file multipart.File, filename string) (*UploadResult, error) {
	uploadParams := uploader.UploadParams{
		Folder:       s.uploadFolder + "/images",
		ResourceType: "image",
	}

	result, err := s.cld.Upload.Upload(ctx, file, uploadParams)
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}

	return &UploadResult{
		URL:      result.SecureURL,
		PublicID: result.PublicID,
		FileSize: int64(result.Bytes),
		Format:   result.Format,
	}, nil
}

// UploadVideo uploads a report video.
func (s *Service) UploadVideo(ctx context.Context, file multipart.File, filename string) (*UploadResult, error) {
	uploadParams := uploader.UploadParams{
		Folder:       s.uploadFolder + "/videos",
		ResourceType: "video",
	}

	result, err := s.cld.Upload.Upload(ctx, file, uploadParams)
	if err != nil {
		return nil, fmt.Errorf("failed to upload video: %w", err)
	}

	return &UploadResult{
		URL:      result.SecureURL,
		PublicID: result.PublicID,
		FileSize: int64(result.Bytes),
		Format:   result.Format,
	}, nil
}

// Delete removes an asset. resourceType is "image" or "video".
func (s *Service) Delete(ctx context.Context, publicID string, resourceType string) error {
	if publicID == "" {
		return errors.New("publicID is required")
	}
	if resourceType == "" {
		resourceType = "image"
	}

	destroyParams := uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceType,
	}

	if _, err := s.cld.Upload.Destroy(ctx, destroyParams); err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}

	return nil
}

// ValidateImageFile checks size and extension for an image upload.
func ValidateImageFile(header *multipart.FileHeader) error {
	if header.Size > MaxImageSize {
		return fmt.Errorf("image file size exceeds maximum allowed size of %d MB", MaxImageSize/(1024*1024))
	}

	ext := getFileExtension(header.Filename)
	if !isAllowedExtension(ext, AllowedImageTypes) {
		return fmt.Errorf("invalid image file type: %s. Allowed types: %s", ext, strings.Join(AllowedImageTypes, ", "))
	}

	return nil
}

// ValidateVideoFile checks size and extension for a video upload.
func ValidateVideoFile(header *multipart.FileHeader) error {
	if header.Size > MaxVideoSize {
		return fmt.Errorf("video file size exceeds maximum allowed size of %d MB", MaxVideoSize/(1024*1024))
	}

	ext := getFileExtension(header.Filename)
	if !isAllowedExtension(ext, AllowedVideoTypes) {
		return fmt.Errorf("invalid video file type: %s. Allowed types: %s", ext, strings.Join(AllowedVideoTypes, ", "))
	}

	return nil
}

func getFileExtension(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

func isAllowedExtension(ext string, allowedTypes []string) bool {
	for _, allowed := range allowedTypes {
		if ext == allowed {
			return true
		}
	}
	return false
}

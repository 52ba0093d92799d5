package services

import (
	"fmt"
	"mime/multipart"

	"github.com/autolavado-hn/carwash-api/utils"
)

// PhotoService handles vehicle photo upload, retrieval and deletion
type PhotoService interface {
	// UploadVehiclePhoto validates and uploads a vehicle photo, returns the storage key
	UploadVehiclePhoto(fileHeader *multipart.FileHeader) (string, error)

	// GetPhotoURL generates a URL for accessing an uploaded photo
	GetPhotoURL(photoKey string) (string, error)

	// DeletePhoto removes a photo from storage
	DeletePhoto(photoKey string) error
}

// S3PhotoService implements PhotoService using AWS S3 for storage
type S3PhotoService struct {
	s3Service S3Interface
}

var photoServiceInstance PhotoService

// InitPhotoService initializes the photo service with S3 backend
func InitPhotoService(s3Service S3Interface) PhotoService {
	photoServiceInstance = &S3PhotoService{
		s3Service: s3Service,
	}
	return photoServiceInstance
}

// GetPhotoService returns the initialized photo service instance
func GetPhotoService() PhotoService {
	return photoServiceInstance
}

// SetPhotoService sets the photo service instance (primarily for testing)
func SetPhotoService(service PhotoService) {
	photoServiceInstance = service
}

// UploadVehiclePhoto validates and uploads a vehicle photo to S3
func (s *S3PhotoService) UploadVehiclePhoto(fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	s3Key, err := s.s3Service.UploadFile(fileHeader, "vehicles")
	if err != nil {
		return "", fmt.Errorf("failed to upload photo: %w", err)
	}

	return s3Key, nil
}

// GetPhotoURL generates a presigned URL for accessing a photo
func (s *S3PhotoService) GetPhotoURL(photoKey string) (string, error) {
	if photoKey == "" {
		return "", nil
	}

	url, err := s.s3Service.GetPresignedURL(photoKey)
	if err != nil {
		return "", fmt.Errorf("failed to generate photo URL: %w", err)
	}

	return url, nil
}

// DeletePhoto deletes a photo from S3
func (s *S3PhotoService) DeletePhoto(photoKey string) error {
	if photoKey == "" {
		return nil
	}

	if err := s.s3Service.DeleteFile(photoKey); err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}

	return nil
}

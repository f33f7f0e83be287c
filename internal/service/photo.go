package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/nutritrack/backend/config"
)

var ErrUnsupportedImageType = errors.New("unsupported image type, use jpeg or png")

// 5 MB cap keeps phone photos through and rejects accidental video uploads.
const maxPhotoBytes = 5 << 20

var photoContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// PhotoService stores meal photos in S3 and returns their public URLs.
type PhotoService struct {
	s3Config *config.S3Config
}

func NewPhotoService(s3Config *config.S3Config) *PhotoService {
	return &PhotoService{s3Config: s3Config}
}

// UploadMealPhoto uploads a meal photo under a per-user key and returns the
// public URL to store on the meal log.
func (s *PhotoService) UploadMealPhoto(ctx context.Context, userID uuid.UUID, fileName string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty image payload")
	}
	if len(data) > maxPhotoBytes {
		return "", fmt.Errorf("image too large: %d bytes, limit is %d", len(data), maxPhotoBytes)
	}
	ext := strings.ToLower(path.Ext(fileName))
	contentType, ok := photoContentTypes[ext]
	if !ok {
		return "", ErrUnsupportedImageType
	}

	key := fmt.Sprintf("meals/%s/%d-%s%s", userID, time.Now().Unix(), uuid.NewString()[:8], ext)
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, key)
	log.Printf("[PhotoService] uploaded meal photo: %s", publicURL)
	return publicURL, nil
}

package services

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	fig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/nfnt/resize"
	"github.com/techagentng/cleancity/config"
)

// Photo storage folders, one per purpose.
const (
	WastePhotoFolder  = "waste_photos"
	PickupPhotoFolder = "pickup_photos"
)

const thumbnailWidth = 320

// MediaService stores report photos in S3 and hands back public URLs.
type MediaService interface {
	UploadWastePhoto(fileHeader *multipart.FileHeader, userID string) (string, error)
	UploadPickupPhoto(fileHeader *multipart.FileHeader, userID string) (string, error)
}

type mediaService struct {
	Config *config.Config
}

func NewMediaService(conf *config.Config) MediaService {
	return &mediaService{Config: conf}
}

func checkSupportedImage(filename string) bool {
	supported := map[string]bool{
		".png":  true,
		".jpeg": true,
		".jpg":  true,
	}
	return supported[strings.ToLower(filepath.Ext(filename))]
}

func generateUniqueFilename(extension string) string {
	return fmt.Sprintf("%d_%s%s", time.Now().UnixNano(), uuid.New(), extension)
}

func (m *mediaService) UploadWastePhoto(fileHeader *multipart.FileHeader, userID string) (string, error) {
	return m.uploadPhoto(fileHeader, userID, WastePhotoFolder)
}

func (m *mediaService) UploadPickupPhoto(fileHeader *multipart.FileHeader, userID string) (string, error) {
	return m.uploadPhoto(fileHeader, userID, PickupPhotoFolder)
}

// uploadPhoto streams the full-size image to S3 and stores a JPEG
// thumbnail next to it under <folder>/thumbnails/. The full-size URL is
// what ends up on the report.
func (m *mediaService) uploadPhoto(fileHeader *multipart.FileHeader, userID string, folder string) (string, error) {
	if !checkSupportedImage(fileHeader.Filename) {
		return "", fmt.Errorf("unsupported file type: %s", fileHeader.Filename)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %v", err)
	}
	defer file.Close()

	img, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %v", err)
	}

	client, err := m.s3Client()
	if err != nil {
		return "", err
	}

	fileExtension := filepath.Ext(fileHeader.Filename)
	filename := generateUniqueFilename(fileExtension)
	fileKey := fmt.Sprintf("%s/%s_%s", folder, userID, filename)
	thumbKey := fmt.Sprintf("%s/thumbnails/%s_%s.jpg", folder, userID, strings.TrimSuffix(filename, fileExtension))

	var fullBuf bytes.Buffer
	if err := imaging.Encode(&fullBuf, img, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return "", fmt.Errorf("failed to encode image: %v", err)
	}

	thumb := resize.Resize(thumbnailWidth, 0, img, resize.Lanczos3)
	var thumbBuf bytes.Buffer
	if err := jpeg.Encode(&thumbBuf, thumb, &jpeg.Options{Quality: 80}); err != nil {
		return "", fmt.Errorf("failed to encode thumbnail: %v", err)
	}

	if err := m.putObject(client, fileKey, fullBuf.Bytes()); err != nil {
		return "", err
	}
	if err := m.putObject(client, thumbKey, thumbBuf.Bytes()); err != nil {
		return "", err
	}

	fileURL := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", m.Config.AwsBucket, m.Config.AwsRegion, fileKey)
	return fileURL, nil
}

func (m *mediaService) s3Client() (*s3.Client, error) {
	if m.Config.AwsBucket == "" {
		return nil, fmt.Errorf("S3 bucket name is not configured")
	}

	cfg, err := fig.LoadDefaultConfig(context.TODO(),
		fig.WithRegion(m.Config.AwsRegion),
		fig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(m.Config.AwsAccessKeyID, m.Config.AwsSecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %v", err)
	}

	return s3.NewFromConfig(cfg), nil
}

func (m *mediaService) putObject(client *s3.Client, key string, body []byte) error {
	_, err := client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(m.Config.AwsBucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ACL:         "public-read",
		ContentType: aws.String("image/jpeg"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload file to S3: %v", err)
	}
	return nil
}

package services

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// RecordingService hands out presigned S3 URLs for call recordings
type RecordingService struct {
	Client *s3.Client
	Bucket string
	Clock  Clock
}

// NewRecordingService initializes the S3 client for the recordings bucket
func NewRecordingService(region, bucket string) *RecordingService {
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(region))
	if err != nil {
		log.Fatalf("Failed to load AWS config for S3: %v", err)
	}
	return &RecordingService{Client: s3.NewFromConfig(cfg), Bucket: bucket, Clock: SystemClock}
}

// recordingKey builds the object key for one uploaded recording
func recordingKey(sessionID, fileName string, now time.Time) string {
	return "recordings/" + sessionID + "/" + now.Format("20060102150405") + "-" + fileName
}

// GenerateUploadURL generates a presigned URL for uploading a recording
func (rs *RecordingService) GenerateUploadURL(ctx context.Context, sessionID, fileName, fileType string) (string, string, error) {
	key := recordingKey(sessionID, fileName, rs.Clock.Now())
	params := &s3.PutObjectInput{
		Bucket:      aws.String(rs.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(fileType),
	}
	presigner := s3.NewPresignClient(rs.Client)
	presignedURL, err := presigner.PresignPutObject(ctx, params, s3.WithPresignExpires(5*time.Minute))
	if err != nil {
		return "", "", err
	}
	return presignedURL.URL, key, nil
}

// GenerateReadURL generates a presigned URL for fetching a recording
func (rs *RecordingService) GenerateReadURL(ctx context.Context, key string) (string, error) {
	params := &s3.GetObjectInput{
		Bucket: aws.String(rs.Bucket),
		Key:    aws.String(key),
	}
	presigner := s3.NewPresignClient(rs.Client)
	presignedURL, err := presigner.PresignGetObject(ctx, params, s3.WithPresignExpires(5*time.Minute))
	if err != nil {
		return "", err
	}
	return presignedURL.URL, nil
}

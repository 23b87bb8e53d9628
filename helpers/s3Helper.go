package helpers

import (
	"fmt"
	"log"
	"mime/multipart"
	"os"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

var s3Session *session.Session

func init() {
	key := os.Getenv("AWS_ACCESS")
	secret := os.Getenv("AWS_SECRET")
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-1"
	}

	cfg := &aws.Config{
		Region: aws.String(region),
	}
	if endpoint := os.Getenv("S3_ENDPOINT"); endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
	}
	if key != "" {
		cfg.Credentials = credentials.NewStaticCredentials(key, secret, "")
	}

	sess, err := session.NewSession(cfg)
	if err != nil {
		log.Fatalf("Error creating S3 session: %v", err)
	}
	s3Session = sess
}

func bucketName() string {
	bucket := os.Getenv("S3_BUCKET")
	if bucket == "" {
		bucket = "caskai-recordings"
	}
	return bucket
}

func recordingKey(sessionID string) string {
	return fmt.Sprintf("recordings/%s.mp4", sessionID)
}

// RecordingUploadURL presigns a PUT the client uses to push a session
// recording straight to the bucket.
func RecordingUploadURL(sessionID string) (string, error) {
	svc := s3.New(s3Session)
	req, _ := svc.PutObjectRequest(&s3.PutObjectInput{
		Bucket: aws.String(bucketName()),
		Key:    aws.String(recordingKey(sessionID)),
		ACL:    aws.String("private"),
	})
	return req.Presign(15 * time.Minute)
}

// RecordingDownloadURL presigns a GET for doctor playback.
func RecordingDownloadURL(sessionID string) (string, error) {
	svc := s3.New(s3Session)
	req, _ := svc.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(bucketName()),
		Key:    aws.String(recordingKey(sessionID)),
	})
	return req.Presign(1 * time.Hour)
}

// UploadRecording is the multipart fallback for clients that cannot use the
// presigned PUT. Returns the object key.
func UploadRecording(sessionID string, file multipart.File) (string, error) {
	uploader := s3manager.NewUploader(s3Session)

	key := recordingKey(sessionID)
	_, err := uploader.Upload(&s3manager.UploadInput{
		Bucket: aws.String(bucketName()),
		Key:    aws.String(key),
		Body:   file,
		ACL:    aws.String("private"),
	})
	if err != nil {
		return "", err
	}
	return key, nil
}

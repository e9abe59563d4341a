package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"path"
	"strconv"
	"time"

	"tush00nka/marketplace_chat/internal/config"
	"tush00nka/marketplace_chat/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

type S3Service struct {
	bucket     string
	presignTTL time.Duration
	uploader   *manager.Uploader
	s3Client   *s3.Client
	presigner  *s3.PresignClient
}

func NewS3Service(ctx context.Context, cfg *config.Config) (*S3Service, error) {
	s3Opts := []func(*s3.Options){}

	if cfg.S3Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true // required by MinIO
		})
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}
	if cfg.S3AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, s3Opts...)

	service := &S3Service{
		bucket:     cfg.S3BucketName,
		presignTTL: cfg.S3PresignTTL,
		uploader:   manager.NewUploader(s3Client),
		s3Client:   s3Client,
		presigner:  s3.NewPresignClient(s3Client),
	}

	log.Printf("s3: storage initialized, bucket %q endpoint %q", cfg.S3BucketName, cfg.S3Endpoint)
	return service, nil
}

func (s *S3Service) UploadFile(ctx context.Context, file io.Reader, filename, contentType string, userID, chatID uint) (*model.FileMetadata, error) {
	fileID := uuid.New().String()
	s3Key := path.Join("chats", strconv.FormatUint(uint64(chatID), 10), fileID, path.Base(filename))

	result, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s3Key),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	log.Printf("s3: uploaded %s", result.Location)

	return &model.FileMetadata{
		ID:               fileID,
		Filename:         filename,
		ContentType:      contentType,
		S3Key:            s3Key,
		S3Bucket:         s.bucket,
		UploadedByUserID: userID,
		ChatID:           chatID,
		CreatedAt:        time.Now(),
	}, nil
}

func (s *S3Service) PresignURL(ctx context.Context, key string) (string, error) {
	request, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.presignTTL))
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return request.URL, nil
}

func (s *S3Service) DeleteFiles(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	objects := make([]types.ObjectIdentifier, 0, len(keys))
	for _, key := range keys {
		objects = append(objects, types.ObjectIdentifier{Key: aws.String(key)})
	}

	_, err := s.s3Client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(s.bucket),
		Delete: &types.Delete{Objects: objects, Quiet: aws.Bool(true)},
	})
	if err != nil {
		return fmt.Errorf("failed to delete files: %w", err)
	}
	return nil
}

func (s *S3Service) HealthCheck(ctx context.Context) error {
	_, err := s.s3Client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		return fmt.Errorf("storage health check failed: %w", err)
	}
	return nil
}

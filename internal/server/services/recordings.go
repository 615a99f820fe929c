package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sc "github.com/dmitrijs2005/groundstation/internal/server/config"
	"github.com/dmitrijs2005/groundstation/internal/server/models"
	"github.com/dmitrijs2005/groundstation/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Test seams for the AWS SDK surface.
var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

const presignExpiry = 15 * time.Minute

// RecordingService archives observation captures in S3-compatible object
// storage. Bytes never pass through the server: clients upload and download
// directly against presigned URLs.
type RecordingService struct {
	db     *sql.DB
	rm     repomanager.RepositoryManager
	config *sc.Config
}

func NewRecordingService(db *sql.DB, rm repomanager.RepositoryManager, config *sc.Config) *RecordingService {
	return &RecordingService{db: db, rm: rm, config: config}
}

// newStorageKey scatters objects by date so bucket listings stay usable.
func newStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("recordings/%d/%02d/%02d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *RecordingService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3AccessKey,
			s.config.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

func (s *RecordingService) List(ctx context.Context) ([]models.Recording, error) {
	return s.rm.Recordings(s.db).List(ctx)
}

// Create registers a new capture and returns it with its assigned storage
// key; the caller then requests an upload URL for it.
func (s *RecordingService) Create(ctx context.Context, rec *models.Recording) (*models.Recording, error) {
	rec.StorageKey = newStorageKey()
	rec.Status = models.RecordingPending
	if rec.StartedAt.IsZero() {
		rec.StartedAt = time.Now()
	}
	return s.rm.Recordings(s.db).Create(ctx, rec)
}

func (s *RecordingService) Delete(ctx context.Context, ids []int64) ([]models.Recording, error) {
	if err := s.rm.Recordings(s.db).Delete(ctx, ids); err != nil {
		return nil, err
	}
	return s.List(ctx)
}

// UploadURL returns a presigned PUT URL for a pending recording.
func (s *RecordingService) UploadURL(ctx context.Context, id int64) (string, string, error) {
	rec, err := s.rm.Recordings(s.db).GetByID(ctx, id)
	if err != nil {
		return "", "", err
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", "", err
	}

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &s.config.S3Bucket,
		Key:    &rec.StorageKey,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", "", err
	}

	return rec.StorageKey, req.URL, nil
}

// DownloadURL returns a presigned GET URL for an uploaded recording.
func (s *RecordingService) DownloadURL(ctx context.Context, id int64) (string, error) {
	rec, err := s.rm.Recordings(s.db).GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", err
	}

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &s.config.S3Bucket,
		Key:    &rec.StorageKey,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

// ConfirmUpload marks a finished client-side upload and returns the updated
// recording list.
func (s *RecordingService) ConfirmUpload(ctx context.Context, id int64) ([]models.Recording, error) {
	if err := s.rm.Recordings(s.db).MarkUploaded(ctx, id); err != nil {
		return nil, err
	}
	return s.List(ctx)
}

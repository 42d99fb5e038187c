// Package services contains the media backend business logic: upload
// planning against object storage, multipart completion and catalog
// registration.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/cachao/media/internal/common"
	"github.com/cachao/media/internal/dbx"
	"github.com/cachao/media/internal/logging"
	sc "github.com/cachao/media/internal/server/config"
	"github.com/cachao/media/internal/server/events"
	"github.com/cachao/media/internal/server/models"
	"github.com/cachao/media/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

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
	presignUploadPart = func(pc *s3.PresignClient, ctx context.Context, in *s3.UploadPartInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignUploadPart(ctx, in, optFns...)
	}
	createMultipartUpload = func(c *s3.Client, ctx context.Context, in *s3.CreateMultipartUploadInput) (*s3.CreateMultipartUploadOutput, error) {
		return c.CreateMultipartUpload(ctx, in)
	}
	completeMultipartUpload = func(c *s3.Client, ctx context.Context, in *s3.CompleteMultipartUploadInput) (*s3.CompleteMultipartUploadOutput, error) {
		return c.CompleteMultipartUpload(ctx, in)
	}
	abortMultipartUpload = func(c *s3.Client, ctx context.Context, in *s3.AbortMultipartUploadInput) (*s3.AbortMultipartUploadOutput, error) {
		return c.AbortMultipartUpload(ctx, in)
	}
)

type MediaService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	publisher   events.Publisher
	logger      logging.Logger
}

func NewMediaService(db *sql.DB, repomanager repomanager.RepositoryManager, config *sc.Config,
	publisher events.Publisher, logger logging.Logger) *MediaService {
	return &MediaService{
		db:          db,
		repomanager: repomanager,
		config:      config,
		publisher:   publisher,
		logger:      logger.With("module", "media"),
	}
}

// MakeStorageKey builds a date-partitioned object key for an event upload.
// The original file extension is kept so content type can be inferred later.
func MakeStorageKey(eventID, fileName string) string {
	d := time.Now()
	return fmt.Sprintf("events/%s/%d/%d/%d/%v%s", eventID, d.Year(), d.Month(), d.Day(), uuid.New(), filepath.Ext(fileName))
}

func (s *MediaService) getS3Clients() (*s3.Client, *s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,     // MINIO_ROOT_USER
			s.config.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return client, newS3PresignClient(client), nil
}

// checkAlbum verifies that the album exists and belongs to the event. A
// missing album is reported as a validation error, not a lookup failure,
// because the id came from client input.
func (s *MediaService) checkAlbum(ctx context.Context, albumID, eventID string) error {
	album, err := s.repomanager.Albums(s.db).GetByID(ctx, albumID)
	if errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("%w: album %s does not exist", common.ErrorValidation, albumID)
	}
	if err != nil {
		return err
	}
	if album.EventID != eventID {
		return fmt.Errorf("%w: album %s belongs to another event", common.ErrorValidation, albumID)
	}
	return nil
}

// PlanUpload decides how a file should be transferred and returns the
// presigned URLs to do it. Files under common.DirectUploadLimit get a single
// presigned PUT; larger files get a multipart upload with one presigned URL
// per part. When an album id accompanies the request it must exist and
// belong to the event, so a bad target is rejected before any bytes move.
func (s *MediaService) PlanUpload(ctx context.Context, req *models.UploadPlanRequest) (*models.UploadPlan, error) {
	if req.FileName == "" || req.EventID == "" {
		return nil, fmt.Errorf("%w: file name and event id are required", common.ErrorValidation)
	}
	if req.FileSize <= 0 {
		return nil, fmt.Errorf("%w: file size must be positive", common.ErrorValidation)
	}
	if req.AlbumID != "" {
		if err := s.checkAlbum(ctx, req.AlbumID, req.EventID); err != nil {
			return nil, err
		}
	}

	client, presignClient, err := s.getS3Clients()
	if err != nil {
		return nil, err
	}

	bucket := s.config.S3Bucket
	key := MakeStorageKey(req.EventID, req.FileName)

	if req.FileSize < common.DirectUploadLimit {
		// Presigned PUT
		preq, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
			Bucket:      &bucket,
			Key:         &key,
			ContentType: &req.MimeType,
		}, s3.WithPresignExpires(s.config.PresignExpiry))
		if err != nil {
			return nil, err
		}

		return &models.UploadPlan{
			Strategy:  "direct",
			ObjectKey: key,
			PutURL:    preq.URL,
		}, nil
	}

	out, err := createMultipartUpload(client, ctx, &s3.CreateMultipartUploadInput{
		Bucket:      &bucket,
		Key:         &key,
		ContentType: &req.MimeType,
	})
	if err != nil {
		return nil, err
	}

	partSize := common.MultipartPartSize
	numParts := int((req.FileSize + partSize - 1) / partSize)

	urls := make([]string, 0, numParts)
	for i := 1; i <= numParts; i++ {
		partNumber := int32(i)
		preq, err := presignUploadPart(presignClient, ctx, &s3.UploadPartInput{
			Bucket:     &bucket,
			Key:        &key,
			UploadId:   out.UploadId,
			PartNumber: &partNumber,
		}, s3.WithPresignExpires(s.config.PresignExpiry))
		if err != nil {
			return nil, err
		}
		urls = append(urls, preq.URL)
	}

	return &models.UploadPlan{
		Strategy:  "multipart",
		ObjectKey: key,
		UploadID:  aws.ToString(out.UploadId),
		PartSize:  partSize,
		PartURLs:  urls,
	}, nil
}

// CompleteUpload finishes a multipart upload by submitting the collected
// part ETags. On failure the upload is aborted so storage does not keep
// orphaned parts.
func (s *MediaService) CompleteUpload(ctx context.Context, objectKey, uploadID string, parts []models.UploadPart) error {
	if objectKey == "" || uploadID == "" || len(parts) == 0 {
		return fmt.Errorf("%w: object key, upload id and parts are required", common.ErrorValidation)
	}

	client, _, err := s.getS3Clients()
	if err != nil {
		return err
	}

	bucket := s.config.S3Bucket

	completed := make([]types.CompletedPart, 0, len(parts))
	for _, p := range parts {
		partNumber := p.PartNumber
		etag := p.ETag
		completed = append(completed, types.CompletedPart{
			PartNumber: &partNumber,
			ETag:       &etag,
		})
	}

	_, err = completeMultipartUpload(client, ctx, &s3.CompleteMultipartUploadInput{
		Bucket:   &bucket,
		Key:      &objectKey,
		UploadId: &uploadID,
		MultipartUpload: &types.CompletedMultipartUpload{
			Parts: completed,
		},
	})
	if err != nil {
		if _, abortErr := abortMultipartUpload(client, ctx, &s3.AbortMultipartUploadInput{
			Bucket:   &bucket,
			Key:      &objectKey,
			UploadId: &uploadID,
		}); abortErr != nil {
			s.logger.Error(ctx, "abort multipart upload failed", "key", objectKey, "error", abortErr)
		}
		return fmt.Errorf("error completing multipart upload: %w", err)
	}

	return nil
}

// RegisterVideo stores the catalog row for a finished upload. When an album
// id is given it must exist and belong to the same event. After the row is
// committed a media-registered event is published best effort.
func (s *MediaService) RegisterVideo(ctx context.Context, video *models.Video) (*models.Video, error) {
	if video.EventID == "" || video.StorageKey == "" || video.Title == "" {
		return nil, fmt.Errorf("%w: event id, storage key and title are required", common.ErrorValidation)
	}

	if video.AlbumID != "" {
		if err := s.checkAlbum(ctx, video.AlbumID, video.EventID); err != nil {
			return nil, err
		}
	}

	if video.ID == "" {
		video.ID = uuid.NewString()
	}

	var result *models.Video
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		created, err := s.repomanager.Videos(tx).Create(ctx, video)
		if err != nil {
			return err
		}
		result = created
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error registering video: %w", err)
	}

	if err := s.publisher.PublishMediaRegistered(ctx, events.MediaRegistered{
		MediaID:    result.ID,
		EventID:    result.EventID,
		AlbumID:    result.AlbumID,
		Title:      result.Title,
		StorageKey: result.StorageKey,
		MimeType:   result.MimeType,
		Size:       result.Size,
		At:         result.CreatedAt,
	}); err != nil {
		s.logger.Error(ctx, "publish media registered failed", "media_id", result.ID, "error", err)
	}

	return result, nil
}

// CreateAlbum adds an album to an event.
func (s *MediaService) CreateAlbum(ctx context.Context, eventID, name string) (*models.Album, error) {
	if eventID == "" || name == "" {
		return nil, fmt.Errorf("%w: event id and name are required", common.ErrorValidation)
	}

	albumRepo := s.repomanager.Albums(s.db)

	album, err := albumRepo.Create(ctx, &models.Album{
		ID:      uuid.NewString(),
		EventID: eventID,
		Name:    name,
	})
	if err != nil {
		return nil, err
	}
	return album, nil
}

// ListAlbums returns the albums of an event.
func (s *MediaService) ListAlbums(ctx context.Context, eventID string) ([]*models.Album, error) {
	return s.repomanager.Albums(s.db).ListByEvent(ctx, eventID)
}

// ListVideos returns the registered videos of an event.
func (s *MediaService) ListVideos(ctx context.Context, eventID string) ([]*models.Video, error) {
	return s.repomanager.Videos(s.db).ListByEvent(ctx, eventID)
}

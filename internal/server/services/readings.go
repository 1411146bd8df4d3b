package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/envmon/internal/common"
	sc "github.com/dmitrijs2005/envmon/internal/server/config"
	"github.com/dmitrijs2005/envmon/internal/server/models"
	"github.com/dmitrijs2005/envmon/internal/server/repositories/readings"
	"github.com/dmitrijs2005/envmon/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const archiveURLValidity = 15 * time.Minute

var errArchiveNotConfigured = errors.New("archive storage is not configured")

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// ArchiveResult points at an uploaded snapshot of all readings.
type ArchiveResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type ReadingService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	now         func() time.Time
}

func NewReadingService(db *sql.DB, repomanager repomanager.RepositoryManager, config *sc.Config) *ReadingService {
	return &ReadingService{
		db:          db,
		repomanager: repomanager,
		config:      config,
		now:         time.Now,
	}
}

// Upload stores a reading stamped with the current UTC minute. Zero is a
// valid value; nil means the field was missing.
func (s *ReadingService) Upload(ctx context.Context, temperature, humidity *float64) (*models.Reading, error) {
	if temperature == nil || humidity == nil {
		return nil, common.ErrorValidation
	}

	reading := &models.Reading{
		Timestamp:   s.now().UTC().Format(common.TimestampLayout),
		Temperature: *temperature,
		Humidity:    *humidity,
	}

	created, err := s.repomanager.Readings(s.db).Create(ctx, reading)
	if err != nil {
		return nil, internal(fmt.Errorf("error saving reading: %w", err))
	}
	return created, nil
}

// Fetch returns all readings, newest first.
func (s *ReadingService) Fetch(ctx context.Context) ([]*models.Reading, error) {
	items, err := s.repomanager.Readings(s.db).List(ctx, readings.NewestFirst)
	if err != nil {
		return nil, internal(fmt.Errorf("error listing readings: %w", err))
	}
	return items, nil
}

func (s *ReadingService) archiveKey() string {
	d := s.now().UTC()
	return fmt.Sprintf("readings/%04d/%02d/%02d/%s.json", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *ReadingService) getS3Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

// Archive uploads a JSON snapshot of all readings and returns a presigned
// download URL for it.
func (s *ReadingService) Archive(ctx context.Context) (*ArchiveResult, error) {

	if s.config == nil || s.config.S3Bucket == "" {
		return nil, internal(errArchiveNotConfigured)
	}

	items, err := s.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(items)
	if err != nil {
		return nil, internal(fmt.Errorf("error encoding readings: %w", err))
	}

	client, err := s.getS3Client(ctx)
	if err != nil {
		return nil, internal(fmt.Errorf("error configuring s3: %w", err))
	}

	bucket := s.config.S3Bucket
	key := s.archiveKey()

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, internal(fmt.Errorf("error uploading archive: %w", err))
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(archiveURLValidity))
	if err != nil {
		return nil, internal(fmt.Errorf("error presigning archive: %w", err))
	}

	return &ArchiveResult{Key: key, URL: req.URL}, nil
}

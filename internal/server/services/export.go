package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/server/auth"
	sc "github.com/dmitrijs2005/gophjournal/internal/server/config"
	"github.com/dmitrijs2005/gophjournal/internal/server/models"
	"github.com/dmitrijs2005/gophjournal/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const exportURLValidity = 15 * time.Minute

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

// Export describes an uploaded journal dump.
type Export struct {
	Key   string `json:"key"`
	URL   string `json:"url"`
	Count int    `json:"count"`
}

type exportDocument struct {
	ExportedAt time.Time       `json:"exportedAt"`
	User       auth.Identity   `json:"user"`
	Entries    []*models.Entry `json:"entries"`
}

// ExportService uploads a JSON dump of the caller's journal to S3-compatible
// storage and hands back a short-lived download link.
type ExportService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config

	now func() time.Time
}

func NewExportService(db *sql.DB, repomanager repomanager.RepositoryManager, config *sc.Config) *ExportService {
	return &ExportService{
		db:          db,
		repomanager: repomanager,
		config:      config,
		now:         time.Now,
	}
}

// ExportKey builds the object key for a new export of userID's journal.
func ExportKey(userID string, d time.Time) string {
	d = d.UTC()
	return fmt.Sprintf("exports/%s/%04d/%02d/%02d/%v.json", userID, d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *ExportService) getS3Client(ctx context.Context) (*s3.Client, error) {
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

func (s *ExportService) Export(ctx context.Context, id auth.Identity) (*Export, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	if !s.config.ExportEnabled() {
		return nil, common.ErrorExportDisabled
	}

	entries, err := s.repomanager.Entries(s.db).ListByUser(ctx, id.UserID, models.EntryFilter{})
	if err != nil {
		return nil, fmt.Errorf("error listing entries: %w", err)
	}

	now := s.now()
	body, err := json.Marshal(exportDocument{ExportedAt: now.UTC(), User: id, Entries: entries})
	if err != nil {
		return nil, fmt.Errorf("error encoding export: %w", err)
	}

	client, err := s.getS3Client(ctx)
	if err != nil {
		return nil, fmt.Errorf("error configuring storage: %w", err)
	}

	bucket := s.config.S3Bucket
	key := ExportKey(id.UserID, now)

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("error uploading export: %w", err)
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(exportURLValidity))
	if err != nil {
		return nil, fmt.Errorf("error presigning export: %w", err)
	}

	return &Export{Key: key, URL: req.URL, Count: len(entries)}, nil
}

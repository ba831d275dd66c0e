package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	cfg "github.com/maheshrc27/scrapeflow/configs"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const defaultSnapshotType = "text/html; charset=utf-8"

// SnapshotService archives fetched pages. Archive returns the object key, or
// an empty key when archiving is disabled.
type SnapshotService interface {
	Archive(ctx context.Context, scheduleID int64, page []byte) (string, error)
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type r2Service struct {
	bucket string
	client objectPutter
}

// NewSnapshotService returns an R2-backed archive, or a no-op one when R2 is
// not configured.
func NewSnapshotService(ctx context.Context, r2 cfg.R2) (SnapshotService, error) {
	if !r2.Enabled() {
		return noopSnapshotService{}, nil
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(r2.AccessKey, r2.SecretKey, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", r2.AccountID))
	})
	return &r2Service{bucket: r2.BucketName, client: client}, nil
}

func (r *r2Service) Archive(ctx context.Context, scheduleID int64, page []byte) (string, error) {
	key, contentType, err := snapshotObject(scheduleID, page)
	if err != nil {
		return "", err
	}

	_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(page),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	return key, nil
}

// snapshotObject names the object and picks its content type. Sniffing only
// recognises binary formats; anything else is stored as HTML.
func snapshotObject(scheduleID int64, page []byte) (string, string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", "", err
	}

	ext, contentType := "html", defaultSnapshotType
	if kind, err := filetype.Match(page); err == nil && kind != types.Unknown {
		ext, contentType = kind.Extension, kind.MIME.Value
	}

	return fmt.Sprintf("snapshots/%d/%s.%s", scheduleID, id, ext), contentType, nil
}

type noopSnapshotService struct{}

func (noopSnapshotService) Archive(ctx context.Context, scheduleID int64, page []byte) (string, error) {
	return "", nil
}

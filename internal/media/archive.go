package media

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/betterhealth/bh-platform/pkg/logging"
)

// S3API is the subset of the S3 client used by Archiver.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archiver keeps a compliance copy of uploaded identity documents in S3.
// If no bucket is configured all operations are no-ops.
type Archiver struct {
	bucket   string
	s3Client S3API
	logger   *logging.Logger
}

// NewArchiver creates a document archiver.
func NewArchiver(s3Client S3API, bucket string, logger *logging.Logger) *Archiver {
	if logger == nil {
		logger = logging.Default()
	}
	return &Archiver{bucket: bucket, s3Client: s3Client, logger: logger}
}

// Enabled returns true if archival is configured.
func (a *Archiver) Enabled() bool {
	return a != nil && a.bucket != "" && a.s3Client != nil
}

// ArchiveDocument writes a copy of an uploaded document to S3, keyed by
// upload date and public id.
func (a *Archiver) ArchiveDocument(ctx context.Context, publicID, contentType string, data []byte) error {
	if !a.Enabled() {
		return nil
	}

	now := time.Now().UTC()
	key := fmt.Sprintf("documents/v1/by-date/%d/%02d/%02d/%s",
		now.Year(), now.Month(), now.Day(), publicID)

	_, err := a.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("media: s3 put %s: %w", key, err)
	}

	a.logger.Info("archived document to S3", "s3_key", key, "bytes", len(data))
	return nil
}

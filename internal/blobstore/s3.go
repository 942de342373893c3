// Package blobstore implements media file storage on an S3-compatible
// host. Uploaded files are addressed by a generated object key which
// doubles as the external id used for later deletion.
package blobstore

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/playtube/playtube/internal/models"
)

// Config holds the connection settings for the S3-compatible host.
type Config struct {
	Region       string
	BaseEndpoint string // e.g. a minio address; empty for AWS
	Bucket       string
	AccessKey    string
	SecretKey    string
	PublicURL    string // base URL media is served from
}

// objectAPI is the slice of the S3 client the store uses.
type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store uploads and deletes media objects.
type S3Store struct {
	client    objectAPI
	bucket    string
	publicURL string
}

// New builds an S3Store from config using static credentials.
func New(ctx context.Context, cfg Config) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}, nil
}

// objectKey shards uploads by date so buckets stay listable.
func objectKey(filename string) string {
	d := time.Now()
	ext := ""
	if i := strings.LastIndex(filename, "."); i >= 0 {
		ext = filename[i:]
	}
	return fmt.Sprintf("media/%d/%02d/%02d/%s%s", d.Year(), d.Month(), d.Day(), uuid.New(), ext)
}

// Put uploads a file and returns its public media reference.
func (s *S3Store) Put(ctx context.Context, filename, contentType string, body io.Reader) (models.MediaRef, error) {
	key := objectKey(filename)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return models.MediaRef{}, err
	}

	return models.MediaRef{
		URL:        fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, key),
		ExternalID: key,
	}, nil
}

// Delete removes an uploaded object by its external id. Deleting an id
// that no longer exists is not an error.
func (s *S3Store) Delete(ctx context.Context, externalID string) error {
	if externalID == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(externalID),
	})
	return err
}

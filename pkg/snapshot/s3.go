package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// putObjectAPI is the part of the S3 client the store uses.
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store stores snapshots in AWS S3.
//
// Example usage:
//
//	client := snapshot.NewS3Client(snapshot.S3Config{Region: "eu-west-1"})
//	store := snapshot.NewS3Store(client, "my-bucket", "snapshots/")
type S3Store struct {
	client putObjectAPI
	bucket string
	prefix string
}

// NewS3Store creates a new S3 snapshot store.
//
// Parameters:
//   - client: AWS S3 client from aws-sdk-go-v2
//   - bucket: S3 bucket name
//   - prefix: Key prefix for snapshots (e.g., "snapshots/")
func NewS3Store(client *s3.Client, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix}
}

// S3Config holds what NewS3Client needs to build a client.
type S3Config struct {
	Region string

	// Endpoint overrides the S3 endpoint (MinIO, LocalStack).
	Endpoint string
}

// NewS3Client builds an S3 client that reads static credentials from the
// standard AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN
// environment variables.
func NewS3Client(cfg S3Config) *s3.Client {
	opts := s3.Options{
		Region: cfg.Region,
		Credentials: aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
			id := os.Getenv("AWS_ACCESS_KEY_ID")
			secret := os.Getenv("AWS_SECRET_ACCESS_KEY")
			if id == "" || secret == "" {
				return aws.Credentials{}, fmt.Errorf("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")
			}
			return aws.Credentials{
				AccessKeyID:     id,
				SecretAccessKey: secret,
				SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
				Source:          "Environment",
			}, nil
		}),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts)
}

// Publish implements Publisher.
func (s *S3Store) Publish(ctx context.Context, snap Snapshot) (string, error) {
	if !validName(snap.Name) {
		return "", ErrInvalidName
	}
	key := s.prefix + snap.Name + ".html"

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(snap.HTML),
		ContentType: aws.String(ContentType),
		Metadata: map[string]string{
			"app":         snap.App,
			"size":        strconv.Itoa(len(snap.HTML)),
			"render-time": snap.CreatedAt.UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload failed: %w", err)
	}
	return "s3://" + s.bucket + "/" + key, nil
}

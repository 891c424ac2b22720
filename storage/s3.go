package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/sealpact/walletcore/interfaces"
)

// S3Backend stores artifacts in Amazon S3 or a compatible object store.
// Object overwrite is atomic on S3, which makes Replace a plain put.
type S3Backend struct {
	client      *s3.S3
	bucketName  string
	prefix      string
	log         *slog.Logger
	locationURI string
}

// NewS3Backend creates an S3 storage backend. An empty endpoint targets AWS;
// a custom endpoint enables S3-compatible services (MinIO and the like).
func NewS3Backend(bucketName, prefix, region, endpoint, accessKey, secretKey string, log *slog.Logger) (*S3Backend, error) {
	if log == nil {
		log = slog.Default()
	}
	if bucketName == "" {
		return nil, fmt.Errorf("%w: missing bucket name", interfaces.ErrInvalidLocationURI)
	}

	config := &aws.Config{Region: aws.String(region)}
	if endpoint != "" {
		config.Endpoint = aws.String(endpoint)
		config.S3ForcePathStyle = aws.Bool(true)
	}
	if accessKey != "" {
		config.Credentials = credentials.NewStaticCredentials(accessKey, secretKey, "")
	}

	sess, err := session.NewSession(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}

	uri := fmt.Sprintf("s3://%s/%s?region=%s", bucketName, prefix, region)
	return &S3Backend{
		client:      s3.New(sess),
		bucketName:  bucketName,
		prefix:      prefix,
		log:         log,
		locationURI: uri,
	}, nil
}

func (b *S3Backend) objectKey(address interfaces.WalletAddress) string {
	return path.Join(b.prefix, "artifacts", address.String()+".json")
}

// Store persists an artifact.
func (b *S3Backend) Store(ctx context.Context, artifact *interfaces.SecuredArtifact) error {
	data, err := marshalArtifact(artifact)
	if err != nil {
		return err
	}

	key := b.objectKey(artifact.Address)
	_, err = b.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to store artifact in S3: %w", err)
	}

	b.log.Debug("stored artifact",
		slog.String("bucket", b.bucketName),
		slog.String("key", key),
		slog.Int("size", len(data)))
	return nil
}

// Fetch retrieves the artifact for an address.
func (b *S3Backend) Fetch(ctx context.Context, address interfaces.WalletAddress) (*interfaces.SecuredArtifact, error) {
	result, err := b.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucketName),
		Key:    aws.String(b.objectKey(address)),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok {
			switch aerr.Code() {
			case s3.ErrCodeNoSuchKey, "NotFound":
				return nil, interfaces.ErrArtifactNotFound
			}
		}
		return nil, fmt.Errorf("failed to fetch artifact from S3: %w", err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact body: %w", err)
	}
	return unmarshalArtifact(data)
}

// Replace overwrites the stored artifact; S3 object replacement is atomic.
func (b *S3Backend) Replace(ctx context.Context, artifact *interfaces.SecuredArtifact) error {
	return b.Store(ctx, artifact)
}

// Delete removes the artifact for an address.
func (b *S3Backend) Delete(ctx context.Context, address interfaces.WalletAddress) error {
	_, err := b.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucketName),
		Key:    aws.String(b.objectKey(address)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete artifact from S3: %w", err)
	}
	return nil
}

// Available probes the bucket.
func (b *S3Backend) Available(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := b.client.HeadBucketWithContext(probeCtx, &s3.HeadBucketInput{
		Bucket: aws.String(b.bucketName),
	})
	return err == nil
}

// Name identifies the backend for logging.
func (b *S3Backend) Name() string { return "s3" }

// LocationURI returns the URI this backend was created from.
func (b *S3Backend) LocationURI() string { return b.locationURI }

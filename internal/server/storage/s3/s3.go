// Package s3 implements the blob backend for S3-compatible object storage
// (MinIO in the docker-compose deployment). Keys are scope/name; exclusive
// creation is enforced with a conditional put so the no-overwrite guarantee
// matches the disk backend.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/server/storage"
	"github.com/dmitrijs2005/filevault/internal/server/storage/disk"
)

const maxCollisionAttempts = 10000

// Options carries connection settings for the S3-compatible backend.
type Options struct {
	User         string
	Password     string
	Bucket       string
	Region       string
	BaseEndpoint string
}

type Store struct {
	client *awss3.Client
	bucket string
}

var loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

// NewStore builds an S3 client with static credentials against the
// configured endpoint.
func NewStore(ctx context.Context, opts Options) (*Store, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.User,
			opts.Password,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := awss3.NewFromConfig(cfg, func(o *awss3.Options) {
		o.BaseEndpoint = aws.String(opts.BaseEndpoint)
		o.UsePathStyle = true
	})

	return &Store{client: client, bucket: opts.Bucket}, nil
}

func (s *Store) key(scope, storedName string) string {
	return scope + "/" + storedName
}

// Save puts data under the first free scope/name key. If-None-Match makes the
// put conditional on the key not existing, so a losing racer gets a 412 and
// retries with the next suffix.
func (s *Store) Save(ctx context.Context, scope, name string, data []byte) (string, error) {
	base, err := disk.SanitizeName(name)
	if err != nil {
		return "", err
	}

	for attempt := 0; attempt < maxCollisionAttempts; attempt++ {
		stored := storage.SuffixedName(base, attempt)

		_, err := s.client.PutObject(ctx, &awss3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(s.key(scope, stored)),
			Body:        bytes.NewReader(data),
			IfNoneMatch: aws.String("*"),
		})
		if err != nil {
			var ae smithy.APIError
			if errors.As(err, &ae) && ae.ErrorCode() == "PreconditionFailed" {
				continue
			}
			return "", fmt.Errorf("put object %s: %w", stored, err)
		}

		return stored, nil
	}
	return "", fmt.Errorf("no free key for %q in scope %s after %d attempts", name, scope, maxCollisionAttempts)
}

// Load fetches a stored blob. A missing key yields common.ErrNotFound.
func (s *Store) Load(ctx context.Context, scope, storedName string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(scope, storedName)),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("get object %s: %w", storedName, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", storedName, err)
	}
	return data, nil
}

// Delete removes a stored blob. S3 deletes are idempotent already.
func (s *Store) Delete(ctx context.Context, scope, storedName string) error {
	_, err := s.client.DeleteObject(ctx, &awss3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(scope, storedName)),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", storedName, err)
	}
	return nil
}

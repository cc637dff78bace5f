package s3

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Client defines the S3 operations needed to write objects
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploader writes whole objects to a single bucket
type Uploader struct {
	s3Client S3Client
	bucket   string
}

// NewUploader creates and returns a new Uploader bound to bucket
func NewUploader(s3Client S3Client, bucket string) *Uploader {
	return &Uploader{
		s3Client: s3Client,
		bucket:   bucket,
	}
}

// PutObject stores body under key in one request
func (u *Uploader) PutObject(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := u.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s in bucket %s: %w", key, u.bucket, err)
	}
	return nil
}

package s3

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
)

// Uploader puts objects into a single bucket.
type Uploader struct {
	bucket   string
	uploader s3manageriface.UploaderAPI
}

// NewUploader builds an Uploader from the default AWS credential chain.
func NewUploader(region, bucket string) (*Uploader, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3: bucket is required")
	}
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, fmt.Errorf("s3: create session: %w", err)
	}
	return NewUploaderWithAPI(bucket, s3manager.NewUploader(sess)), nil
}

func NewUploaderWithAPI(bucket string, api s3manageriface.UploaderAPI) *Uploader {
	return &Uploader{bucket: bucket, uploader: api}
}

// Upload stores body under key and returns the object location. The
// content type is derived from the key's extension.
func (u *Uploader) Upload(ctx context.Context, key string, body io.Reader) (string, error) {
	contentType := mime.TypeByExtension(filepath.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	result, err := u.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3: upload %s: %w", key, err)
	}
	return result.Location, nil
}

package uploads

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/gin-gonic/gin"
)

// S3Store keeps images in a bucket under the same relative paths the disk store uses.
type S3Store struct {
	svc    s3iface.S3API
	bucket string
}

func NewS3Store(svc s3iface.S3API, bucket string) *S3Store {
	return &S3Store{svc: svc, bucket: bucket}
}

// NewS3Client собирает клиента из стандартной цепочки AWS credentials
func NewS3Client(region string) (*s3.S3, error) {
	sess, err := session.NewSession(aws.NewConfig().WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("aws session: %w", err)
	}
	return s3.New(sess), nil
}

func objectKey(relPath string) string {
	return strings.TrimPrefix(relPath, "/")
}

func (s *S3Store) Save(c *gin.Context, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	relPath := URLPrefix + newName(file.Filename)
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey(relPath)),
		Body:   src,
	}
	if ct := file.Header.Get("Content-Type"); ct != "" {
		input.ContentType = aws.String(ct)
	}
	if _, err := s.svc.PutObjectWithContext(c.Request.Context(), input); err != nil {
		return "", fmt.Errorf("failed to put object %s to bucket %s: %w", *input.Key, s.bucket, err)
	}
	return relPath, nil
}

// Get отдаёт объект по относительному пути; отсутствующий объект — ErrNotFound
func (s *S3Store) Get(ctx context.Context, relPath string) (*Object, error) {
	clean, ok := withinUploads(relPath)
	if !ok {
		return nil, ErrNotFound
	}
	key := objectKey(clean)

	out, err := s.svc.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get object %s from bucket %s: %w", key, s.bucket, err)
	}
	return &Object{
		Body:        out.Body,
		ContentType: aws.StringValue(out.ContentType),
		Size:        aws.Int64Value(out.ContentLength),
	}, nil
}

func (s *S3Store) Remove(ctx context.Context, relPath string) error {
	clean, ok := withinUploads(relPath)
	if !ok {
		return fmt.Errorf("image path %q is outside the uploads directory", relPath)
	}
	key := objectKey(clean)

	_, err := s.svc.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to head object %s in bucket %s: %w", key, s.bucket, err)
	}

	_, err = s.svc.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s from bucket %s: %w", key, s.bucket, err)
	}
	return nil
}

func isNotFound(err error) bool {
	if reqErr, ok := err.(awserr.RequestFailure); ok {
		return reqErr.StatusCode() == http.StatusNotFound
	}
	if aerr, ok := err.(awserr.Error); ok {
		return aerr.Code() == s3.ErrCodeNoSuchKey
	}
	return false
}

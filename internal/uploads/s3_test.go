package uploads

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 хранит объекты в памяти; остальные методы S3API не нужны
type fakeS3 struct {
	s3iface.S3API
	objects map[string][]byte
	types   map[string]string
	headErr error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func notFound() error {
	return awserr.NewRequestFailure(awserr.New("NotFound", "Not Found", nil), http.StatusNotFound, "req")
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	k := *in.Bucket + "/" + *in.Key
	f.objects[k] = data
	f.types[k] = aws.StringValue(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObjectWithContext(_ aws.Context, in *s3.GetObjectInput, _ ...request.Option) (*s3.GetObjectOutput, error) {
	k := *in.Bucket + "/" + *in.Key
	data, ok := f.objects[k]
	if !ok {
		return nil, notFound()
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(data)),
		ContentType:   aws.String(f.types[k]),
		ContentLength: aws.Int64(int64(len(data))),
	}, nil
}

func (f *fakeS3) HeadObjectWithContext(_ aws.Context, in *s3.HeadObjectInput, _ ...request.Option) (*s3.HeadObjectOutput, error) {
	if f.headErr != nil {
		return nil, f.headErr
	}
	if _, ok := f.objects[*in.Bucket+"/"+*in.Key]; !ok {
		return nil, notFound()
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeS3) DeleteObjectWithContext(_ aws.Context, in *s3.DeleteObjectInput, _ ...request.Option) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, *in.Bucket+"/"+*in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3StoreSaveAndRemove(t *testing.T) {
	ctx := context.Background()
	svc := newFakeS3()
	store := NewS3Store(svc, "images")

	rel, err := store.Save(ginContext(), fileHeader(t, "shirt.jpg", "jpeg-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rel, URLPrefix))

	objKey := "images/" + strings.TrimPrefix(rel, "/")
	require.Contains(t, svc.objects, objKey)
	assert.Equal(t, "jpeg-bytes", string(svc.objects[objKey]))

	require.NoError(t, store.Remove(ctx, rel))
	assert.NotContains(t, svc.objects, objKey)

	// объекта уже нет — HeadObject 404, удалять нечего
	assert.NoError(t, store.Remove(ctx, rel))
}

func TestS3StoreGet(t *testing.T) {
	ctx := context.Background()
	store := NewS3Store(newFakeS3(), "images")

	rel, err := store.Save(ginContext(), fileHeader(t, "shirt.jpg", "jpeg-bytes"))
	require.NoError(t, err)

	obj, err := store.Get(ctx, rel)
	require.NoError(t, err)
	defer obj.Body.Close()
	data, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))
	assert.Equal(t, int64(len("jpeg-bytes")), obj.Size)

	_, err = store.Get(ctx, URLPrefix+"missing.jpg")
	assert.ErrorIs(t, err, ErrNotFound)

	// путь вне /uploads/produtos/ в бакет не уходит
	_, err = store.Get(ctx, "/uploads/produtos/../secret.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestS3StoreRemoveSurfacesErrors(t *testing.T) {
	svc := newFakeS3()
	svc.headErr = errors.New("access denied")
	store := NewS3Store(svc, "images")

	assert.Error(t, store.Remove(context.Background(), "/uploads/produtos/a.jpg"))
	assert.Error(t, store.Remove(context.Background(), "/etc/passwd"))
}

package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/config"
)

func TestLocalStorage(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir, "/files/")
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("put and delete", func(t *testing.T) {
		key := "companies/5/abc.pdf"
		require.NoError(t, s.Put(ctx, key, strings.NewReader("conteudo"), 8, "application/pdf"))

		data, err := os.ReadFile(filepath.Join(dir, "companies", "5", "abc.pdf"))
		require.NoError(t, err)
		assert.Equal(t, "conteudo", string(data))
		assert.Equal(t, "/files/companies/5/abc.pdf", s.URL(key))

		require.NoError(t, s.Delete(ctx, key))
		_, err = os.Stat(filepath.Join(dir, "companies", "5", "abc.pdf"))
		assert.True(t, os.IsNotExist(err))

		assert.NoError(t, s.Delete(ctx, key), "deleting a missing object is not an error")
	})

	t.Run("size mismatch leaves nothing behind", func(t *testing.T) {
		err := s.Put(ctx, "companies/5/short.pdf", strings.NewReader("abc"), 10, "")
		assert.Error(t, err)
		_, statErr := os.Stat(filepath.Join(dir, "companies", "5", "short.pdf"))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("escaping keys are refused", func(t *testing.T) {
		err := s.Put(ctx, "../../etc/passwd", strings.NewReader("x"), 1, "")
		assert.ErrorIs(t, err, ErrInvalidKey)
		assert.ErrorIs(t, s.Delete(ctx, "../outside"), ErrInvalidKey)
	})
}

type fakeS3Client struct {
	puts    []*s3.PutObjectInput
	bodies  []string
	deletes []*s3.DeleteObjectInput
}

func (f *fakeS3Client) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.puts = append(f.puts, params)
	f.bodies = append(f.bodies, string(body))
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3Client) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, params)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Storage(t *testing.T) {
	client := &fakeS3Client{}
	s := NewS3StorageWithClient(client, S3Config{Bucket: "gestor-docs", Region: "sa-east-1", PublicURL: "/files"})
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "companies/5/a.pdf", strings.NewReader("pdf"), 3, "application/pdf"))
	require.Len(t, client.puts, 1)
	assert.Equal(t, "gestor-docs", aws.ToString(client.puts[0].Bucket))
	assert.Equal(t, "companies/5/a.pdf", aws.ToString(client.puts[0].Key))
	assert.Equal(t, "application/pdf", aws.ToString(client.puts[0].ContentType))
	assert.Equal(t, int64(3), aws.ToInt64(client.puts[0].ContentLength))
	assert.Equal(t, "pdf", client.bodies[0])

	assert.Equal(t, "https://gestor-docs.s3.sa-east-1.amazonaws.com/companies/5/a.pdf", s.URL("companies/5/a.pdf"))

	require.NoError(t, s.Delete(ctx, "companies/5/a.pdf"))
	require.Len(t, client.deletes, 1)
	assert.Equal(t, "companies/5/a.pdf", aws.ToString(client.deletes[0].Key))
}

func TestS3Storage_CustomEndpointURL(t *testing.T) {
	s := NewS3StorageWithClient(&fakeS3Client{}, S3Config{Bucket: "docs", Region: "us-east-1", Endpoint: "http://minio:9000/"})
	assert.Equal(t, "http://minio:9000/docs/k.txt", s.URL("k.txt"))
}

func TestNew_SelectsDriver(t *testing.T) {
	local, err := New(context.Background(), config.StorageConfig{Driver: "local", LocalDir: t.TempDir(), PublicURL: "/files"})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, local)

	_, err = New(context.Background(), config.StorageConfig{Driver: "ftp"})
	assert.Error(t, err)

	_, err = New(context.Background(), config.StorageConfig{Driver: "s3"})
	assert.Error(t, err, "bucket and region are required")
}

package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// 1x1 transparent PNG.
var pngPixel = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func TestImages_SaveLocal(t *testing.T) {
	dir := t.TempDir()
	imgs := NewImages(NewLocal(dir, "/media/"), 1<<20, zap.NewNop().Sugar())

	url, err := imgs.Save(context.Background(), FolderFaceIDs, bytes.NewReader(pngPixel))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "/media/face_ids/"))
	require.True(t, strings.HasSuffix(url, ".png"))

	stored, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(url, "/media/")))
	require.NoError(t, err)
	require.Equal(t, pngPixel, stored)
}

func TestImages_Rejects(t *testing.T) {
	imgs := NewImages(NewLocal(t.TempDir(), "/media"), 32, zap.NewNop().Sugar())

	_, err := imgs.Save(context.Background(), FolderPostImages, strings.NewReader("plain text, not an image"))
	require.ErrorIs(t, err, ErrNotImage)

	_, err = imgs.Save(context.Background(), FolderPostImages, bytes.NewReader(pngPixel))
	require.ErrorIs(t, err, ErrTooLarge)
}

type fakeS3 struct {
	in  *s3.PutObjectInput
	err error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	return &s3.PutObjectOutput{}, f.err
}

func TestS3_Put(t *testing.T) {
	fake := &fakeS3{}
	b := &S3{client: fake, bucket: "media", baseURL: "http://minio:9000/media"}

	url, err := b.Put(context.Background(), "id_cards/a.png", pngPixel, "image/png")
	require.NoError(t, err)
	require.Equal(t, "http://minio:9000/media/id_cards/a.png", url)
	require.Equal(t, "media", aws.ToString(fake.in.Bucket))
	require.Equal(t, "image/png", aws.ToString(fake.in.ContentType))
	body, _ := io.ReadAll(fake.in.Body)
	require.Equal(t, pngPixel, body)

	fake.err = errors.New("denied")
	_, err = b.Put(context.Background(), "k", nil, "image/png")
	require.Error(t, err)
}

package storage

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjects struct {
	bucket      string
	key         string
	body        []byte
	size        int64
	contentType string
	expiry      time.Duration
	putErr      error
}

func (f *fakeObjects) PutObject(_ context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.putErr != nil {
		return minio.UploadInfo{}, f.putErr
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.bucket, f.key, f.body, f.size, f.contentType = bucketName, objectName, body, objectSize, opts.ContentType
	return minio.UploadInfo{Bucket: bucketName, Key: objectName, Size: objectSize}, nil
}

func (f *fakeObjects) PresignedGetObject(_ context.Context, bucketName, objectName string, expires time.Duration, _ url.Values) (*url.URL, error) {
	f.expiry = expires
	return url.Parse("https://s3.example/" + bucketName + "/" + objectName + "?X-Amz-Signature=abc")
}

func TestS3Store_Put(t *testing.T) {
	objects := &fakeObjects{}
	s := newS3Store(objects, Config{Bucket: "voice"})

	got, err := s.Put(context.Background(), []byte("mp3"), "audio/mpeg")
	require.NoError(t, err)

	assert.Equal(t, "voice", objects.bucket)
	assert.True(t, strings.HasPrefix(objects.key, "speech/"), objects.key)
	assert.True(t, strings.HasSuffix(objects.key, ".mp3"), objects.key)
	assert.Equal(t, []byte("mp3"), objects.body)
	assert.Equal(t, int64(3), objects.size)
	assert.Equal(t, "audio/mpeg", objects.contentType)
	assert.Equal(t, DefaultURLExpiry, objects.expiry)
	assert.Equal(t, "https://s3.example/voice/"+objects.key+"?X-Amz-Signature=abc", got)
}

func TestS3Store_UniqueKeys(t *testing.T) {
	objects := &fakeObjects{}
	s := newS3Store(objects, Config{Bucket: "voice", Prefix: "tts", URLExpiry: time.Hour})

	_, err := s.Put(context.Background(), []byte("a"), "audio/mpeg")
	require.NoError(t, err)
	first := objects.key

	_, err = s.Put(context.Background(), []byte("b"), "audio/ogg")
	require.NoError(t, err)

	assert.NotEqual(t, first, objects.key)
	assert.True(t, strings.HasPrefix(first, "tts/"))
	assert.True(t, strings.HasSuffix(objects.key, ".bin"))
	assert.Equal(t, time.Hour, objects.expiry)
}

func TestS3Store_PutError(t *testing.T) {
	s := newS3Store(&fakeObjects{putErr: errors.New("access denied")}, Config{Bucket: "voice"})

	_, err := s.Put(context.Background(), []byte("mp3"), "audio/mpeg")
	assert.ErrorContains(t, err, "access denied")
}

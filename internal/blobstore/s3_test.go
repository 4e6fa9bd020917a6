package blobstore

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
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dmitrijs2005/lightningpass/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string][]byte
	putIn   *s3.PutObjectInput
	putErr  error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.putIn = in
	f.objects[*in.Key] = b
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	b, ok := f.objects[*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func withFakeS3(t *testing.T, f *fakeS3) *S3Options {
	t.Helper()
	origLoad, origNew := loadDefaultAWSConfig, newS3ClientFromConfig
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNew
	})

	var applied s3.Options
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "eu-west-1", lo.Region)
		return aws.Config{Region: lo.Region}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) objectAPI {
		for _, fn := range optFns {
			fn(&applied)
		}
		assert.True(t, applied.UsePathStyle)
		assert.Equal(t, "http://127.0.0.1:9000", aws.ToString(applied.BaseEndpoint))
		return f
	}

	return &S3Options{
		Bucket: "pictures", Region: "eu-west-1", BaseEndpoint: "http://127.0.0.1:9000",
		AccessKey: "minioadmin", SecretKey: "minioadmin",
	}
}

func TestS3Store_SaveOpen(t *testing.T) {
	f := &fakeS3{objects: map[string][]byte{}}
	opts := withFakeS3(t, f)
	ctx := context.Background()

	s, err := NewS3Store(ctx, *opts)
	require.NoError(t, err)

	src := filepath.Join(t.TempDir(), "me.png")
	require.NoError(t, os.WriteFile(src, []byte("png"), 0o600))

	name, err := s.Save(ctx, src)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".png"))
	require.NotNil(t, f.putIn)
	assert.Equal(t, "pictures", aws.ToString(f.putIn.Bucket))
	assert.Equal(t, "profile_pictures/"+name, aws.ToString(f.putIn.Key))
	assert.Equal(t, "image/png", aws.ToString(f.putIn.ContentType))

	rc, err := s.Open(ctx, name)
	require.NoError(t, err)
	b, _ := io.ReadAll(rc)
	assert.Equal(t, "png", string(b))

	_, err = s.Open(ctx, "missing.png")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestS3Store_Errors(t *testing.T) {
	f := &fakeS3{objects: map[string][]byte{}, putErr: errors.New("denied")}
	opts := withFakeS3(t, f)
	ctx := context.Background()

	s, err := NewS3Store(ctx, *opts)
	require.NoError(t, err)

	_, err = s.Save(ctx, filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)

	src := filepath.Join(t.TempDir(), "me.png")
	require.NoError(t, os.WriteFile(src, []byte("png"), 0o600))
	_, err = s.Save(ctx, src)
	assert.ErrorContains(t, err, "denied")
}

func TestNewS3Store_ConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })
	loadDefaultAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}

	_, err := NewS3Store(context.Background(), S3Options{Bucket: "b"})
	assert.ErrorContains(t, err, "no config")
}

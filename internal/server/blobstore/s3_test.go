package blobstore

import (
	"context"
	"errors"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjects struct {
	puts        map[string][]byte
	contentType string
	deleted     []string
	headErr     error
	createErr   error
	created     bool
	putErr      error
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	b, _ := io.ReadAll(in.Body)
	if f.puts == nil {
		f.puts = map[string][]byte{}
	}
	f.puts[*in.Key] = b
	f.contentType = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = append(f.deleted, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeObjects) HeadBucket(context.Context, *s3.HeadBucketInput, ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, f.headErr
}

func (f *fakeObjects) CreateBucket(context.Context, *s3.CreateBucketInput, ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	f.created = true
	return &s3.CreateBucketOutput{}, f.createErr
}

type fakePresign struct {
	key     string
	expires time.Duration
	err     error
}

func (f *fakePresign) PresignGetObject(_ context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	if f.err != nil {
		return nil, f.err
	}
	var o s3.PresignOptions
	for _, fn := range optFns {
		fn(&o)
	}
	f.key = *in.Key
	f.expires = o.Expires
	return &v4.PresignedHTTPRequest{URL: "http://minio/bucket/" + *in.Key}, nil
}

func TestNewS3Store_AppliesOptions(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origNewPre := newS3PresignClient
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		return aws.Config{}, nil
	}

	var s3opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&s3opts)
		}
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		require.NotNil(t, c)
		return &s3.PresignClient{}
	}

	st, err := NewS3Store(context.Background(), Options{
		Region: "us-east-1", AccessKey: "minioadmin", SecretKey: "minioadmin",
		BaseEndpoint: "http://127.0.0.1:9000", Bucket: "documents",
	})
	require.NoError(t, err)
	require.NotNil(t, st)
	require.NotNil(t, s3opts.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *s3opts.BaseEndpoint)
	assert.True(t, s3opts.UsePathStyle)

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}
	_, err = NewS3Store(context.Background(), Options{Bucket: "documents"})
	require.EqualError(t, err, "load-fail")

	_, err = NewS3Store(context.Background(), Options{})
	require.Error(t, err)
}

func TestPutDeletePresign(t *testing.T) {
	objs := &fakeObjects{}
	pre := &fakePresign{}
	st := &S3Store{bucket: "documents", client: objs, presign: pre}
	ctx := context.Background()

	require.NoError(t, st.Put(ctx, "k1", []byte("hello"), "text/plain"))
	assert.Equal(t, []byte("hello"), objs.puts["k1"])
	assert.Equal(t, "text/plain", objs.contentType)

	require.NoError(t, st.Delete(ctx, "k1"))
	assert.Equal(t, []string{"k1"}, objs.deleted)

	url, err := st.PresignGet(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "http://minio/bucket/k1", url)
	assert.Equal(t, PresignExpiry, pre.expires)

	objs.putErr = errors.New("s3 down")
	err = st.Put(ctx, "k2", []byte("x"), "text/plain")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3 down")

	pre.err = errors.New("sign fail")
	_, err = st.PresignGet(ctx, "k1")
	require.Error(t, err)
}

func TestEnsureBucket(t *testing.T) {
	ctx := context.Background()

	objs := &fakeObjects{}
	st := &S3Store{bucket: "documents", client: objs}
	require.NoError(t, st.EnsureBucket(ctx))
	assert.False(t, objs.created)

	objs = &fakeObjects{headErr: errors.New("not found")}
	st = &S3Store{bucket: "documents", client: objs}
	require.NoError(t, st.EnsureBucket(ctx))
	assert.True(t, objs.created)

	objs = &fakeObjects{headErr: errors.New("not found"), createErr: &types.BucketAlreadyOwnedByYou{}}
	st = &S3Store{bucket: "documents", client: objs}
	require.NoError(t, st.EnsureBucket(ctx))

	objs = &fakeObjects{headErr: errors.New("not found"), createErr: errors.New("denied")}
	st = &S3Store{bucket: "documents", client: objs}
	require.Error(t, st.EnsureBucket(ctx))
}

func TestNewStorageKey(t *testing.T) {
	now := time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC)
	k1 := NewStorageKey(now)
	k2 := NewStorageKey(now)
	assert.Regexp(t, regexp.MustCompile(`^documents/2025/7/4/[0-9a-f-]{36}$`), k1)
	assert.NotEqual(t, k1, k2)
}

package document

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Client is the subset of the S3 API used by the S3 sources
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	s3.ListObjectsV2APIClient
}

// S3 is a document stored as an S3 object
type S3 struct {
	bucket string
	key    string
	client S3Client
}

var _ Source = (*S3)(nil)

type S3Option func(*S3)

func WithS3Bucket(bucket string) S3Option {
	return func(s *S3) {
		s.bucket = bucket
	}
}

func WithS3Key(key string) S3Option {
	return func(s *S3) {
		s.key = key
	}
}

func WithS3Client(clt S3Client) S3Option {
	return func(s *S3) {
		s.client = clt
	}
}

// NewS3 creates a new S3 object source.
func NewS3(opts ...S3Option) *S3 {
	ret := new(S3)
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func (s *S3) Name() string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, s.key)
}

func (s *S3) Meta() map[string]string {
	return map[string]string{
		"filename": path.Base(s.key),
		"bucket":   s.bucket,
		"key":      s.key,
	}
}

func (s *S3) Open(ctx context.Context) (io.ReadCloser, error) {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object from S3: %w", err)
	}
	return resp.Body, nil
}

// S3Prefix lists the objects of a bucket under a prefix
type S3Prefix struct {
	client S3Client
	bucket string
	prefix string
	filter func(key string) bool
}

var _ Lister = (*S3Prefix)(nil)

// NewS3Prefix parses an s3://bucket/prefix URI, filter may be nil
func NewS3Prefix(client S3Client, uri string, filter func(key string) bool) (*S3Prefix, error) {
	rest, ok := strings.CutPrefix(uri, "s3://")
	if !ok {
		return nil, fmt.Errorf("invalid s3 uri %q", uri)
	}
	bucket, prefix, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return nil, fmt.Errorf("invalid s3 uri %q: missing bucket", uri)
	}
	return &S3Prefix{client: client, bucket: bucket, prefix: prefix, filter: filter}, nil
}

func (s *S3Prefix) List(ctx context.Context) ([]Source, error) {
	var ret []Source
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if strings.HasSuffix(key, "/") || (s.filter != nil && !s.filter(key)) {
				continue
			}
			ret = append(ret, NewS3(WithS3Bucket(s.bucket), WithS3Key(key), WithS3Client(s.client)))
		}
	}
	return ret, nil
}

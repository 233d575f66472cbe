package ingestion

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rotisserie/eris"
)

// S3Config holds configuration for the S3 storage backend.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string // S3-compatible endpoint such as MinIO; switches to path-style addressing
	Prefix    string // prepended to every <organization>/<kind>/<name> key
	AccessKey string
	SecretKey string
}

// S3Storage keeps raw uploads and scored documents in one bucket, one key
// per ObjectRef. Each object carries its organization and kind as metadata
// so a bucket listing can be audited without parsing keys.
type S3Storage struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Storage creates an S3-backed StorageClient. Without explicit keys the
// default AWS credential chain is used.
func NewS3Storage(ctx context.Context, cfg S3Config) (*S3Storage, error) {
	if cfg.Bucket == "" {
		return nil, eris.New("s3: bucket is required")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, eris.Wrap(err, "s3: load aws config")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Storage{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

// Put uploads a blob under its organization and kind.
func (s *S3Storage) Put(ctx context.Context, org, kind, name string, data []byte) error {
	ref := ObjectRef{Organization: org, Kind: kind, Name: name}
	if err := ref.validate(); err != nil {
		return err
	}
	_, err := s.client.PutObject(ctx, s.putInput(ref, data))
	if err != nil {
		return eris.Wrapf(err, "s3: put %s", ref.Key(s.prefix))
	}
	return nil
}

func (s *S3Storage) putInput(ref ObjectRef, data []byte) *s3.PutObjectInput {
	return &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(ref.Key(s.prefix)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType(ref.Name)),
		Metadata: map[string]string{
			"organization": ref.Organization,
			"kind":         ref.Kind,
		},
	}
}

// Get downloads a blob. A missing key is ErrObjectNotFound.
func (s *S3Storage) Get(ctx context.Context, org, kind, name string) ([]byte, error) {
	ref := ObjectRef{Organization: org, Kind: kind, Name: name}
	if err := ref.validate(); err != nil {
		return nil, err
	}
	key := ref.Key(s.prefix)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if isS3NotFound(err) {
		return nil, eris.Wrapf(ErrObjectNotFound, "s3: %s", key)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "s3: get %s", key)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, eris.Wrapf(err, "s3: read %s", key)
	}
	return data, nil
}

func isS3NotFound(err error) bool {
	var noKey *types.NoSuchKey
	var notFound *types.NotFound
	return errors.As(err, &noKey) || errors.As(err, &notFound)
}

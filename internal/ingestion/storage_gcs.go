package ingestion

import (
	"context"
	"errors"
	"io"
	"path"

	gcs "cloud.google.com/go/storage"
	"github.com/rotisserie/eris"
)

// GCSStorage implements StorageClient using Google Cloud Storage.
type GCSStorage struct {
	client *gcs.Client
	bucket string
	prefix string
}

// NewGCSStorage creates a GCS-backed StorageClient.
// It uses Application Default Credentials (works with Workload Identity, SA keys, gcloud auth).
func NewGCSStorage(ctx context.Context, bucket, prefix string) (*GCSStorage, error) {
	if bucket == "" {
		return nil, eris.New("gcs: bucket is required")
	}
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "gcs: create client")
	}
	return &GCSStorage{client: client, bucket: bucket, prefix: prefix}, nil
}

// Put uploads a blob.
func (s *GCSStorage) Put(ctx context.Context, org, kind, name string, data []byte) error {
	ref := ObjectRef{Organization: org, Kind: kind, Name: name}
	if err := ref.validate(); err != nil {
		return err
	}
	key := ref.Key(s.prefix)
	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType(name)
	w.Metadata = map[string]string{"organization": org, "kind": kind}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return eris.Wrapf(err, "gcs: write %s", key)
	}
	if err := w.Close(); err != nil {
		return eris.Wrapf(err, "gcs: close %s", key)
	}
	return nil
}

// Get downloads a blob. A missing object is ErrObjectNotFound.
func (s *GCSStorage) Get(ctx context.Context, org, kind, name string) ([]byte, error) {
	ref := ObjectRef{Organization: org, Kind: kind, Name: name}
	if err := ref.validate(); err != nil {
		return nil, err
	}
	key := ref.Key(s.prefix)
	r, err := s.client.Bucket(s.bucket).Object(key).NewReader(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return nil, eris.Wrapf(ErrObjectNotFound, "gcs: %s", key)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "gcs: open %s", key)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrapf(err, "gcs: read %s", key)
	}
	return data, nil
}

func contentType(name string) string {
	switch path.Ext(name) {
	case ".json":
		return "application/json"
	case ".yaml", ".yml":
		return "application/yaml"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

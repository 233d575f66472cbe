// Package ingestion runs the report pipeline: decode, normalize, score,
// store the annotated document and record it in the ledger.
package ingestion

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/esgscope/esgscope/pkg/config"
)

// Blob kinds.
const (
	KindRaw       = "raw"
	KindDocuments = "documents"
)

// StorageClient abstracts blob storage for uploaded files and scored documents.
// Objects are addressed as <organization>/<kind>/<name>.
type StorageClient interface {
	Put(ctx context.Context, org, kind, name string, data []byte) error
	Get(ctx context.Context, org, kind, name string) ([]byte, error)
}

// NewStorage builds the backend selected by cfg.Backend.
func NewStorage(ctx context.Context, cfg config.StorageConfig) (StorageClient, error) {
	switch cfg.Backend {
	case "local", "":
		return NewLocalStorage(cfg.BaseDir), nil
	case "s3":
		return NewS3Storage(ctx, S3Config{
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			Endpoint:  cfg.Endpoint,
			Prefix:    cfg.Prefix,
			AccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		})
	case "gcs":
		return NewGCSStorage(ctx, cfg.Bucket, cfg.Prefix)
	default:
		return nil, eris.Errorf("storage: unknown backend %q", cfg.Backend)
	}
}

// ErrObjectNotFound is returned by every backend when a blob does not exist.
var ErrObjectNotFound = eris.New("storage: object not found")

// ObjectRef addresses one blob: <organization>/<kind>/<name>.
type ObjectRef struct {
	Organization string
	Kind         string
	Name         string
}

func (r ObjectRef) validate() error {
	if err := ValidateOrganization(r.Organization); err != nil {
		return err
	}
	switch r.Kind {
	case KindRaw, KindDocuments:
	default:
		return eris.Errorf("storage: unknown kind %q", r.Kind)
	}
	if r.Name == "" || r.Name == "." || r.Name == ".." || strings.ContainsAny(r.Name, `/\`) {
		return eris.Errorf("storage: invalid object name %q", r.Name)
	}
	return nil
}

// Key joins the reference with forward slashes, under an optional prefix.
func (r ObjectRef) Key(prefix string) string {
	key := r.Organization + "/" + r.Kind + "/" + r.Name
	if prefix != "" {
		key = strings.TrimSuffix(prefix, "/") + "/" + key
	}
	return key
}

// LocalStorage implements StorageClient using the local filesystem.
// Useful for development and testing.
type LocalStorage struct {
	BaseDir string
}

// NewLocalStorage creates a LocalStorage rooted at the given directory.
func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{BaseDir: baseDir}
}

func (s *LocalStorage) path(ref ObjectRef) string {
	return filepath.Join(s.BaseDir, ref.Organization, ref.Kind, ref.Name)
}

// Put writes a blob, creating parent directories.
func (s *LocalStorage) Put(ctx context.Context, org, kind, name string, data []byte) error {
	ref := ObjectRef{Organization: org, Kind: kind, Name: name}
	if err := ref.validate(); err != nil {
		return err
	}
	path := s.path(ref)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrap(err, "local: create directory")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "local: write %s", path)
	}
	return nil
}

// Get reads a blob.
func (s *LocalStorage) Get(ctx context.Context, org, kind, name string) ([]byte, error) {
	ref := ObjectRef{Organization: org, Kind: kind, Name: name}
	if err := ref.validate(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(ref))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, eris.Wrapf(ErrObjectNotFound, "local: %s", ref.Key(""))
	}
	if err != nil {
		return nil, eris.Wrapf(err, "local: read %s", ref.Key(""))
	}
	return data, nil
}

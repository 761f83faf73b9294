// Package storage publishes exported files to an S3-compatible bucket.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config holds the connection settings for the bucket.
type Config struct {
	Endpoint  string `yaml:"endpoint" envconfig:"ENDPOINT"`
	AccessKey string `yaml:"access_key" envconfig:"ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" envconfig:"SECRET_KEY"`
	Bucket    string `yaml:"bucket" envconfig:"BUCKET"`
	Prefix    string `yaml:"prefix" envconfig:"PREFIX"`
	UseSSL    bool   `yaml:"use_ssl" envconfig:"USE_SSL"`
}

// Enabled reports whether an endpoint and bucket are configured.
func (c Config) Enabled() bool {
	return c.Endpoint != "" && c.Bucket != ""
}

// Object is one uploaded file.
type Object struct {
	Key  string `json:"key"`
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// Publisher uploads files under a key prefix.
type Publisher struct {
	client *minio.Client
	bucket string
	prefix string
	logger *slog.Logger
}

// NewPublisher creates a minio client for cfg. It does not contact the server.
func NewPublisher(cfg Config, logger *slog.Logger) (*Publisher, error) {
	if !cfg.Enabled() {
		return nil, &PublishError{Message: "storage endpoint and bucket are required"}
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, &PublishError{Message: "failed to create storage client", Cause: err}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix, logger: logger}, nil
}

// EnsureBucket creates the bucket if it does not exist.
func (p *Publisher) EnsureBucket(ctx context.Context) error {
	exists, err := p.client.BucketExists(ctx, p.bucket)
	if err != nil {
		return &PublishError{Message: "failed to check bucket " + p.bucket, Cause: err}
	}
	if exists {
		return nil
	}
	if err := p.client.MakeBucket(ctx, p.bucket, minio.MakeBucketOptions{}); err != nil {
		return &PublishError{Message: "failed to create bucket " + p.bucket, Cause: err}
	}
	p.logger.Info("created bucket", "bucket", p.bucket)
	return nil
}

// Upload puts the file at localPath under key.
func (p *Publisher) Upload(ctx context.Context, key, localPath string) (Object, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return Object{}, &PublishError{Key: key, Message: "failed to open file", Cause: err}
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return Object{}, &PublishError{Key: key, Message: "failed to stat file", Cause: err}
	}

	_, err = p.client.PutObject(ctx, p.bucket, key, f, info.Size(), minio.PutObjectOptions{
		ContentType: ContentType(localPath),
	})
	if err != nil {
		return Object{}, &PublishError{Key: key, Message: "failed to upload file", Cause: err}
	}
	p.logger.Debug("uploaded object", "bucket", p.bucket, "key", key, "bytes", info.Size())
	return Object{Key: key, Path: localPath, Size: info.Size()}, nil
}

// Publish uploads each file under prefix/runID, keyed by its path relative to baseDir.
// It stops at the first failure and returns what was uploaded before it.
func (p *Publisher) Publish(ctx context.Context, runID, baseDir string, files []string) ([]Object, error) {
	out := make([]Object, 0, len(files))
	for _, file := range files {
		key, err := ObjectKey(p.prefix, runID, baseDir, file)
		if err != nil {
			return out, &PublishError{Key: file, Message: "failed to build object key", Cause: err}
		}
		obj, err := p.Upload(ctx, key, file)
		if err != nil {
			return out, err
		}
		out = append(out, obj)
	}
	p.logger.Info("published outputs", "bucket", p.bucket, "objects", len(out), "run_id", runID)
	return out, nil
}

// URL returns the path-style URL of key.
func (p *Publisher) URL(key string) string {
	u := p.client.EndpointURL()
	return fmt.Sprintf("%s://%s/%s/%s", u.Scheme, u.Host, p.bucket, key)
}

// ObjectKey joins prefix, runID and the slash-separated path of file relative to baseDir.
// Files outside baseDir are rejected.
func ObjectKey(prefix, runID, baseDir, file string) (string, error) {
	rel, err := filepath.Rel(baseDir, file)
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("%s is outside %s", file, baseDir)
	}
	parts := make([]string, 0, 3)
	for _, p := range []string{strings.Trim(prefix, "/"), runID, rel} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return path.Join(parts...), nil
}

// ContentType guesses a MIME type from the file extension.
func ContentType(file string) string {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".csv":
		return "text/csv"
	case ".json":
		return "application/json"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	if t := mime.TypeByExtension(filepath.Ext(file)); t != "" {
		return t
	}
	return "application/octet-stream"
}

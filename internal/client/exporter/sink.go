// Package exporter delivers note export snapshots to a destination: a local
// directory or an S3-compatible bucket.
package exporter

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/notekeeper/internal/filex"
)

var ErrInvalidName = errors.New("invalid export file name")

// Sink stores one export snapshot under name and reports where it went.
type Sink interface {
	Write(ctx context.Context, name string, data []byte) (string, error)
}

func checkName(name string) error {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

type FileSink struct {
	dir string
}

func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir}
}

func (s *FileSink) Write(ctx context.Context, name string, data []byte) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir, err := filex.EnsureDir(s.dir)
	if err != nil {
		return "", fmt.Errorf("export dir: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := filex.WriteFileAtomic(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

// Config selects the sink. A non-empty S3.Bucket wins over Dir.
type Config struct {
	Dir string
	S3  S3Config
}

func New(ctx context.Context, cfg Config) (Sink, error) {
	if cfg.S3.Bucket != "" {
		return NewS3Sink(ctx, cfg.S3)
	}
	return NewFileSink(cfg.Dir), nil
}

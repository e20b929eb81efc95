package localebuild

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Publisher ships a committed cache somewhere else. files are names relative
// to dir.
type Publisher interface {
	Publish(ctx context.Context, dir string, files []string) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, dir string, files []string) error

func (f PublisherFunc) Publish(ctx context.Context, dir string, files []string) error {
	return f(ctx, dir, files)
}

// ObjectPruner lists and removes stored objects. *storage.S3 satisfies it.
type ObjectPruner interface {
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, name string) error
}

// StoragePublisher uploads every compiled file to object storage. When the
// store is an ObjectPruner, compiled files of earlier builds that are not in
// the current build are deleted afterwards. Manifests and nested objects
// are left alone.
type StoragePublisher struct {
	store ObjectStore
}

// NewStoragePublisher returns a publisher writing to store.
func NewStoragePublisher(store ObjectStore) *StoragePublisher {
	return &StoragePublisher{store: store}
}

func (p *StoragePublisher) Publish(ctx context.Context, dir string, files []string) error {
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return errors.Join(ErrPublishFailed, err)
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return errors.Join(ErrPublishFailed, err)
		}
		if err := p.store.Put(ctx, name, data, "application/json"); err != nil {
			return errors.Join(ErrPublishFailed, fmt.Errorf("%s: %w", name, err))
		}
	}
	return p.prune(ctx, files)
}

func (p *StoragePublisher) prune(ctx context.Context, files []string) error {
	pruner, ok := p.store.(ObjectPruner)
	if !ok {
		return nil
	}
	stored, err := pruner.List(ctx)
	if err != nil {
		return errors.Join(ErrPublishFailed, err)
	}
	for _, name := range stored {
		if !isCompiledObject(name) || slices.Contains(files, name) {
			continue
		}
		if err := pruner.Delete(ctx, name); err != nil {
			return errors.Join(ErrPublishFailed, fmt.Errorf("%s: %w", name, err))
		}
	}
	return nil
}

// isCompiledObject matches "{namespace}.{language}.json" at the top level.
func isCompiledObject(name string) bool {
	return strings.HasSuffix(name, ".json") &&
		!strings.HasSuffix(name, manifestSuffix) &&
		!strings.Contains(name, "/")
}

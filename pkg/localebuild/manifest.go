package localebuild

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
)

// Manifest lists the languages and namespaces present in the compiled cache,
// in the order they were first seen.
type Manifest struct {
	Locales    []string `json:"locales"`
	Namespaces []string `json:"namespaces"`
}

// HasLocale reports whether lang is part of the manifest.
func (m Manifest) HasLocale(lang string) bool { return slices.Contains(m.Locales, lang) }

// ManifestWriter persists a value under a key.
type ManifestWriter interface {
	Write(ctx context.Context, key string, v any) error
}

// ManifestWriterFunc adapts a function to ManifestWriter.
type ManifestWriterFunc func(ctx context.Context, key string, v any) error

func (f ManifestWriterFunc) Write(ctx context.Context, key string, v any) error { return f(ctx, key, v) }

// ManifestReader loads a value stored under a key.
// Implementations return ErrManifestNotFound when the key is absent.
type ManifestReader interface {
	Read(ctx context.Context, key string, v any) error
}

// FileManifestStore keeps each key as "{key}.json" in Dir.
type FileManifestStore struct {
	Dir string
}

// NewFileManifestStore returns a store rooted at dir.
func NewFileManifestStore(dir string) *FileManifestStore {
	return &FileManifestStore{Dir: dir}
}

func (s *FileManifestStore) path(key string) string {
	return filepath.Join(s.Dir, key+".json")
}

// Write encodes v as JSON and replaces the file atomically.
func (s *FileManifestStore) Write(_ context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Join(ErrManifest, err)
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return errors.Join(ErrManifest, err)
	}
	if err := writeFileAtomic(s.path(key), data); err != nil {
		return errors.Join(ErrManifest, err)
	}
	return nil
}

// Read decodes the file stored under key into v.
func (s *FileManifestStore) Read(_ context.Context, key string, v any) error {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrManifestNotFound, key)
	}
	if err != nil {
		return errors.Join(ErrManifest, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Join(ErrManifest, err)
	}
	return nil
}

// ObjectStore is the subset of an object storage client used for manifests
// and published files. *storage.S3 satisfies it.
type ObjectStore interface {
	Put(ctx context.Context, name string, data []byte, contentType string) error
	Read(ctx context.Context, name string) ([]byte, error)
}

// ObjectManifestStore keeps manifests in object storage so every server
// instance reads the manifest of the last published build.
type ObjectManifestStore struct {
	store    ObjectStore
	notFound error
}

// NewObjectManifestStore wraps store. notFound is the error store.Read
// returns for a missing object; it is reported as ErrManifestNotFound.
func NewObjectManifestStore(store ObjectStore, notFound error) *ObjectManifestStore {
	return &ObjectManifestStore{store: store, notFound: notFound}
}

func (s *ObjectManifestStore) Write(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Join(ErrManifest, err)
	}
	if err := s.store.Put(ctx, key+manifestSuffix, data, "application/json"); err != nil {
		return errors.Join(ErrManifest, err)
	}
	return nil
}

func (s *ObjectManifestStore) Read(ctx context.Context, key string, v any) error {
	data, err := s.store.Read(ctx, key+manifestSuffix)
	if err != nil {
		if s.notFound != nil && errors.Is(err, s.notFound) {
			return fmt.Errorf("%w: %s", ErrManifestNotFound, key)
		}
		return errors.Join(ErrManifest, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Join(ErrManifest, err)
	}
	return nil
}

// MultiManifestWriter writes to every writer in order and stops at the first error.
type MultiManifestWriter []ManifestWriter

func (m MultiManifestWriter) Write(ctx context.Context, key string, v any) error {
	for _, w := range m {
		if err := w.Write(ctx, key, v); err != nil {
			return err
		}
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

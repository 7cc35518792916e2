// Package artifact locates model artifacts on disk.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/sysguard/seqscore/internal/domain/port"
	"github.com/sysguard/seqscore/internal/domain/service"
)

const (
	// DefaultPath is the artifact used by the fixed variant.
	DefaultPath = "random_forest_model"
	// DefaultExpectedLength is the sequence length the default artifact was trained on.
	DefaultExpectedLength = 25077
	// DefaultDir is the base directory scanned by the discovery variant.
	DefaultDir = "files"
	// DefaultPrefix selects artifact files during discovery.
	DefaultPrefix = "random_forest_model"
)

// Extensions stripped from a discovered name before the length suffix is read.
var knownExtensions = []string{".pmml", ".xml"}

// FixedResolver always returns the same artifact.
type FixedResolver struct {
	config port.ArtifactConfig
}

// NewFixedResolver returns a resolver for path trained on expectedLength tokens.
func NewFixedResolver(path string, expectedLength int) (*FixedResolver, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty artifact path", service.ErrArtifactNotFound)
	}
	if expectedLength <= 0 || expectedLength > service.MaxExpectedLength {
		return nil, fmt.Errorf("%w: expected length for %s must be in 1..%d, got %d",
			service.ErrMalformedArtifactName, path, service.MaxExpectedLength, expectedLength)
	}
	return &FixedResolver{config: port.ArtifactConfig{Path: path, ExpectedLength: expectedLength}}, nil
}

// Resolve implements port.ArtifactResolver.
func (r *FixedResolver) Resolve(_ context.Context) (port.ArtifactConfig, error) {
	return r.config, nil
}

// DirectoryResolver scans a directory for the first file whose name starts
// with a prefix and reads the expected sequence length from the name, as in
// "random_forest_model_500".
type DirectoryResolver struct {
	fs     afero.Fs
	dir    string
	prefix string
}

// NewDirectoryResolver scans dir on the OS filesystem.
func NewDirectoryResolver(dir, prefix string) *DirectoryResolver {
	return NewDirectoryResolverFS(afero.NewOsFs(), dir, prefix)
}

// NewDirectoryResolverFS scans dir on fsys.
func NewDirectoryResolverFS(fsys afero.Fs, dir, prefix string) *DirectoryResolver {
	if dir == "" {
		dir = DefaultDir
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &DirectoryResolver{fs: fsys, dir: dir, prefix: prefix}
}

// Resolve lists the directory on every call. Entries are visited in
// lexicographic order and the first regular file carrying the prefix wins.
func (r *DirectoryResolver) Resolve(ctx context.Context) (port.ArtifactConfig, error) {
	if err := ctx.Err(); err != nil {
		return port.ArtifactConfig{}, err
	}

	entries, err := afero.ReadDir(r.fs, r.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return port.ArtifactConfig{}, fmt.Errorf("%w: directory %s does not exist", service.ErrArtifactNotFound, r.dir)
		}
		return port.ArtifactConfig{}, fmt.Errorf("failed to list %s: %w", r.dir, err)
	}

	for _, entry := range entries {
		if !entry.Mode().IsRegular() || !strings.HasPrefix(entry.Name(), r.prefix) {
			continue
		}

		length, err := ParseExpectedLength(entry.Name())
		if err != nil {
			return port.ArtifactConfig{}, err
		}
		return port.ArtifactConfig{
			Path:           filepath.Join(r.dir, entry.Name()),
			ExpectedLength: length,
		}, nil
	}

	return port.ArtifactConfig{}, fmt.Errorf("%w: no file with prefix %q in %s", service.ErrArtifactNotFound, r.prefix, r.dir)
}

// ParseExpectedLength reads the decimal digits after the last underscore of
// name, ignoring a trailing .pmml or .xml extension. The length must be in
// 1..service.MaxExpectedLength.
func ParseExpectedLength(name string) (int, error) {
	base := name
	for _, ext := range knownExtensions {
		if strings.EqualFold(filepath.Ext(base), ext) {
			base = strings.TrimSuffix(base, filepath.Ext(base))
			break
		}
	}

	idx := strings.LastIndex(base, "_")
	if idx < 0 {
		return 0, fmt.Errorf("%w: %s has no length suffix", service.ErrMalformedArtifactName, name)
	}

	suffix := base[idx+1:]
	if suffix == "" || strings.TrimLeft(suffix, "0123456789") != "" {
		return 0, fmt.Errorf("%w: %s: length suffix %q is not a decimal number", service.ErrMalformedArtifactName, name, suffix)
	}

	length, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", service.ErrMalformedArtifactName, name, err)
	}
	if length <= 0 || length > service.MaxExpectedLength {
		return 0, fmt.Errorf("%w: %s: length must be in 1..%d", service.ErrMalformedArtifactName, name, service.MaxExpectedLength)
	}

	return length, nil
}

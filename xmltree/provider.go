package xmltree

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Provider retrieves parsed documents. Resolve turns a reference found inside
// document from into a name Open understands.
type Provider interface {
	Open(name string) (*Element, error)
	Resolve(from, ref string) string
}

// FSProvider reads documents from an fs.FS using slash-separated names, e.g.
// an embed.FS or os.DirFS.
type FSProvider struct {
	FS fs.FS
}

// Dir returns a provider rooted at dir on the local filesystem.
func Dir(dir string) FSProvider {
	return FSProvider{FS: os.DirFS(dir)}
}

func (p FSProvider) Open(name string) (*Element, error) {
	clean := strings.TrimPrefix(path.Clean(filepath.ToSlash(name)), "/")
	b, err := fs.ReadFile(p.FS, clean)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, name)
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	el, err := Parse(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return el, nil
}

func (FSProvider) Resolve(from, ref string) string {
	ref = filepath.ToSlash(ref)
	if path.IsAbs(ref) {
		return path.Clean(ref)
	}
	return path.Join(path.Dir(filepath.ToSlash(from)), ref)
}

// OSProvider reads documents by operating-system path.
type OSProvider struct{}

func (OSProvider) Open(name string) (*Element, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, name)
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	el, err := Parse(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return el, nil
}

func (OSProvider) Resolve(from, ref string) string {
	if filepath.IsAbs(ref) {
		return filepath.Clean(ref)
	}
	return filepath.Join(filepath.Dir(from), filepath.FromSlash(ref))
}

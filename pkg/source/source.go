// Package source loads the text a line index is built from.
//
// A reference is either a filesystem path or a git blob reference of the
// form "git:<repo>@<revision>:<path>".
package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/praetorian-inc/linepos/pkg/types"
)

// GitPrefix marks a reference to a file inside a git repository.
const GitPrefix = "git:"

// ErrUnsupported is returned for references that cannot be loaded.
var ErrUnsupported = errors.New("unsupported source reference")

// Content is loaded text and where it came from.
type Content struct {
	Ref  string
	Data []byte
	ID   types.DocumentID
}

// Config bounds what Load accepts.
type Config struct {
	// MaxSize rejects content larger than this many bytes. Zero means no limit.
	MaxSize int64
}

// Load reads the content named by ref.
func Load(ctx context.Context, ref string, cfg Config) (*Content, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data []byte
	var err error
	if strings.HasPrefix(ref, GitPrefix) {
		var gr GitRef
		gr, err = ParseGitRef(ref)
		if err != nil {
			return nil, err
		}
		data, err = loadGit(ctx, gr, cfg)
	} else {
		data, err = loadFile(ref, cfg)
	}
	if err != nil {
		return nil, err
	}

	return &Content{
		Ref:  ref,
		Data: data,
		ID:   types.ComputeDocumentID(data),
	}, nil
}

func loadFile(path string, cfg Config) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrUnsupported)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrUnsupported, path)
	}
	if cfg.MaxSize > 0 && info.Size() > cfg.MaxSize {
		return nil, fmt.Errorf("%s is %d bytes, limit is %d", path, info.Size(), cfg.MaxSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

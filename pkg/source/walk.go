package source

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
	"golang.org/x/sync/errgroup"

	"github.com/praetorian-inc/linepos/pkg/types"
)

// WalkConfig controls which files Walk yields.
type WalkConfig struct {
	Config

	// IncludeHidden includes hidden files and directories (starting with .).
	IncludeHidden bool

	// Workers is the number of parallel readers. Zero means one per CPU.
	Workers int
}

// Walk yields the text files under root.
//
// Files matched by root's .gitignore, hidden entries, files over MaxSize
// and binary files (a NUL byte in the first 8KB) are skipped. Paths are
// collected first, then read and passed to fn in parallel; fn must be safe
// for concurrent use.
func Walk(ctx context.Context, root string, cfg WalkConfig, fn func(*Content) error) error {
	var ignore *gitignore.GitIgnore
	gitignorePath := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(gitignorePath); err == nil {
		ignore, _ = gitignore.CompileIgnoreFile(gitignorePath)
	}

	var paths []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && !cfg.IncludeHidden && isHidden(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}
		if !cfg.IncludeHidden && isHidden(d.Name()) {
			return nil
		}

		if cfg.MaxSize > 0 {
			info, err := d.Info()
			if err != nil {
				return err
			}
			if info.Size() > cfg.MaxSize {
				return nil
			}
		}

		if ignore != nil {
			relPath, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			if ignore.MatchesPath(relPath) {
				return nil
			}
		}

		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return err
	}

	workers := cfg.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	g, gctx := errgroup.WithContext(ctx)
	pathsCh := make(chan string, workers*2)

	g.Go(func() error {
		defer close(pathsCh)
		for _, p := range paths {
			select {
			case pathsCh <- p:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for p := range pathsCh {
				if err := gctx.Err(); err != nil {
					return err
				}
				data, err := os.ReadFile(p)
				if err != nil {
					return fmt.Errorf("failed to read file %s: %w", p, err)
				}
				if isBinary(data) {
					continue
				}
				if err := fn(&Content{Ref: p, Data: data, ID: types.ComputeDocumentID(data)}); err != nil {
					return err
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// isHidden checks if a filename is hidden (starts with .).
// The special entries "." and ".." are NOT considered hidden.
func isHidden(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return strings.HasPrefix(name, ".")
}

// isBinary detects if content is binary by checking first 8KB for null bytes.
func isBinary(content []byte) bool {
	checkSize := len(content)
	if checkSize > 8192 {
		checkSize = 8192
	}
	return bytes.IndexByte(content[:checkSize], 0) != -1
}

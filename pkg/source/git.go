package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// GitRef names a file at a revision of a local repository.
type GitRef struct {
	Repo     string
	Revision string
	Path     string
}

// String formats the reference as accepted by ParseGitRef.
func (r GitRef) String() string {
	return GitPrefix + r.Repo + "@" + r.Revision + ":" + r.Path
}

// ParseGitRef parses "git:<repo>@<revision>:<path>". The revision defaults
// to HEAD when "@<revision>" is omitted.
func ParseGitRef(ref string) (GitRef, error) {
	rest, ok := strings.CutPrefix(ref, GitPrefix)
	if !ok {
		return GitRef{}, fmt.Errorf("%w: %q is not a git reference", ErrUnsupported, ref)
	}

	colon := strings.LastIndex(rest, ":")
	if colon < 0 || colon == len(rest)-1 {
		return GitRef{}, fmt.Errorf("%w: %q has no file path", ErrUnsupported, ref)
	}
	repoRev, path := rest[:colon], rest[colon+1:]

	gr := GitRef{Repo: repoRev, Revision: "HEAD", Path: strings.TrimPrefix(path, "/")}
	if at := strings.LastIndex(repoRev, "@"); at >= 0 {
		gr.Repo, gr.Revision = repoRev[:at], repoRev[at+1:]
	}
	if gr.Repo == "" || gr.Revision == "" {
		return GitRef{}, fmt.Errorf("%w: %q needs a repository and revision", ErrUnsupported, ref)
	}
	return gr, nil
}

func loadGit(ctx context.Context, ref GitRef, cfg Config) ([]byte, error) {
	repo, err := git.PlainOpen(ref.Repo)
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository: %w", err)
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(ref.Revision))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve ref %s: %w", ref.Revision, err)
	}

	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("failed to get commit: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := commit.File(ref.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to find %s at %s: %w", ref.Path, ref.Revision, err)
	}

	if cfg.MaxSize > 0 && file.Size > cfg.MaxSize {
		return nil, fmt.Errorf("%s is %d bytes, limit is %d", ref.Path, file.Size, cfg.MaxSize)
	}

	contents, err := file.Contents()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ref.Path, err)
	}
	return []byte(contents), nil
}

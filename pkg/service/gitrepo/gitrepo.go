package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/linecard/bpsync/pkg/convention/repository"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/rs/zerolog/log"
)

const RemoteName = "origin"

// Service implements repository.FileService on a go-git worktree. Each write is
// committed and, when the repository has a remote, pushed immediately.
type Service struct {
	Repo   *git.Repository
	Branch string
	Auth   transport.AuthMethod
}

func TokenAuth(token string) transport.AuthMethod {
	return &http.BasicAuth{
		Username: "oauth2",
		Password: token,
	}
}

// Clone fetches a single branch into memory.
func Clone(ctx context.Context, url, branch string, auth transport.AuthMethod) (*git.Repository, error) {
	repo, err := git.CloneContext(ctx, memory.NewStorage(), memfs.New(), &git.CloneOptions{
		URL:           url,
		Auth:          auth,
		RemoteName:    RemoteName,
		ReferenceName: plumbing.NewBranchReferenceName(branch),
		SingleBranch:  true,
		Depth:         1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to clone %s@%s: %w", url, branch, err)
	}

	sha, err := Sha(repo)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve HEAD of %s@%s: %w", url, branch, err)
	}

	log.Info().Str("remote", url).Str("branch", branch).Str("sha", sha).Msg("cloned repository")

	return repo, nil
}

func FromRepository(repo *git.Repository, branch string, auth transport.AuthMethod) Service {
	return Service{
		Repo:   repo,
		Branch: branch,
		Auth:   auth,
	}
}

func (s Service) Lookup(ctx context.Context, path string) (repository.File, repository.Existence, error) {
	wt, err := s.Repo.Worktree()
	if err != nil {
		return repository.File{}, repository.NotFound, err
	}

	content, err := util.ReadFile(wt.Filesystem, path)
	if errors.Is(err, os.ErrNotExist) {
		return repository.File{}, repository.NotFound, nil
	}

	if err != nil {
		return repository.File{}, repository.NotFound, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return repository.File{Path: path, Content: string(content)}, repository.Found, nil
}

func (s Service) Create(ctx context.Context, path, content string, commit repository.Commit) error {
	return s.write(ctx, path, content, commit)
}

func (s Service) Update(ctx context.Context, path, content string, commit repository.Commit) error {
	return s.write(ctx, path, content, commit)
}

func (s Service) Delete(ctx context.Context, path string, commit repository.Commit) error {
	wt, err := s.Repo.Worktree()
	if err != nil {
		return err
	}

	if _, err := wt.Remove(path); err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}

	return s.commit(ctx, wt, commit)
}

func (s Service) write(ctx context.Context, path, content string, commit repository.Commit) error {
	wt, err := s.Repo.Worktree()
	if err != nil {
		return err
	}

	if err := wt.Filesystem.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	if err := util.WriteFile(wt.Filesystem, path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if _, err := wt.Add(path); err != nil {
		return fmt.Errorf("failed to stage %s: %w", path, err)
	}

	return s.commit(ctx, wt, commit)
}

func (s Service) commit(ctx context.Context, wt *git.Worktree, commit repository.Commit) error {
	hash, err := wt.Commit(commit.Message, &git.CommitOptions{
		AllowEmptyCommits: true,
		Author: &object.Signature{
			Name:  commit.AuthorName,
			Email: commit.AuthorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	log.Debug().Str("sha", hash.String()).Str("message", commit.Message).Msg("committed")

	if _, err := s.Repo.Remote(RemoteName); errors.Is(err, git.ErrRemoteNotFound) {
		return nil
	}

	err = s.Repo.PushContext(ctx, &git.PushOptions{
		RemoteName: RemoteName,
		Auth:       s.Auth,
		RefSpecs: []config.RefSpec{
			config.RefSpec(fmt.Sprintf("%[1]s:%[1]s", plumbing.NewBranchReferenceName(s.Branch))),
		},
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("failed to push to %s: %w", s.Branch, err)
	}

	return nil
}

// Sha returns the commit at HEAD.
func Sha(repo *git.Repository) (string, error) {
	head, err := repo.Head()
	if err != nil {
		return "", err
	}

	return head.Hash().String(), nil
}

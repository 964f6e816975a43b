package gitrepo

import (
	"context"
	"testing"

	"github.com/linecard/bpsync/pkg/convention/repository"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const path = "blueprints/web-app/blueprint.yaml"

func TestGitrepo(t *testing.T) {
	ctx := context.Background()
	commit := repository.Commit{Message: "Created by jane@example.com", AuthorName: "jane@example.com", AuthorEmail: "jane@example.com"}

	tests := []struct {
		name  string
		setup func(*testing.T, Service)
		test  func(*testing.T, Service)
	}{
		{
			name:  "Lookup reports absent files as not found",
			setup: func(t *testing.T, s Service) {},
			test: func(t *testing.T, s Service) {
				_, existence, err := s.Lookup(ctx, path)
				assert.NoError(t, err)
				assert.Equal(t, repository.NotFound, existence)
			},
		},
		{
			name: "Create commits the file",
			setup: func(t *testing.T, s Service) {
				require.NoError(t, s.Create(ctx, path, repository.Placeholder, commit))
			},
			test: func(t *testing.T, s Service) {
				f, existence, err := s.Lookup(ctx, path)
				assert.NoError(t, err)
				assert.Equal(t, repository.Found, existence)
				assert.Equal(t, repository.Placeholder, f.Content)

				sha, err := Sha(s.Repo)
				require.NoError(t, err)
				c, err := s.Repo.CommitObject(plumbing.NewHash(sha))
				require.NoError(t, err)
				assert.Equal(t, commit.Message, c.Message)
				assert.Equal(t, commit.AuthorEmail, c.Author.Email)
			},
		},
		{
			name: "Update replaces content in a new commit",
			setup: func(t *testing.T, s Service) {
				require.NoError(t, s.Create(ctx, path, repository.Placeholder, commit))
				require.NoError(t, s.Update(ctx, path, "name: web", commit))
			},
			test: func(t *testing.T, s Service) {
				f, _, err := s.Lookup(ctx, path)
				assert.NoError(t, err)
				assert.Equal(t, "name: web", f.Content)

				log, err := s.Repo.Log(&git.LogOptions{})
				require.NoError(t, err)
				count := 0
				require.NoError(t, log.ForEach(func(*object.Commit) error {
					count++
					return nil
				}))
				assert.Equal(t, 2, count)
			},
		},
		{
			name: "Delete removes the file",
			setup: func(t *testing.T, s Service) {
				require.NoError(t, s.Create(ctx, path, "gitlabSyncDelete: true", commit))
				require.NoError(t, s.Delete(ctx, path, commit))
			},
			test: func(t *testing.T, s Service) {
				_, existence, err := s.Lookup(ctx, path)
				assert.NoError(t, err)
				assert.Equal(t, repository.NotFound, existence)
			},
		},
		{
			name:  "Delete fails for absent files",
			setup: func(t *testing.T, s Service) {},
			test: func(t *testing.T, s Service) {
				assert.Error(t, s.Delete(ctx, path, commit))
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo, err := git.Init(memory.NewStorage(), memfs.New())
			require.NoError(t, err)

			s := FromRepository(repo, "master", TokenAuth("token"))
			tc.setup(t, s)
			tc.test(t, s)
		})
	}
}

func TestSha(t *testing.T) {
	repo, err := git.Init(memory.NewStorage(), memfs.New())
	require.NoError(t, err)

	_, err = Sha(repo)
	assert.Error(t, err, "a repository without commits has no HEAD")

	s := FromRepository(repo, "master", nil)
	commit := repository.Commit{Message: "Created by jane", AuthorName: "jane", AuthorEmail: "jane@example.com"}
	require.NoError(t, s.Create(context.Background(), path, repository.Placeholder, commit))

	sha, err := Sha(repo)
	require.NoError(t, err)
	assert.Len(t, sha, 40)
}

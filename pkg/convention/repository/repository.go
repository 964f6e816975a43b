package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/linecard/bpsync/pkg/convention/config"

	"github.com/rs/zerolog/log"
)

const (
	Filename = "/blueprint.yaml"

	// DeleteMarker must appear in the stored blueprint for a deletion event to remove it.
	DeleteMarker = "gitlabSyncDelete: true"

	Placeholder = "Created by bpsync"
)

type Existence int

const (
	NotFound Existence = iota
	Found
)

func (e Existence) String() string {
	if e == Found {
		return "found"
	}
	return "not found"
}

type Operation string

const (
	OperationCreate Operation = "create"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
	OperationSkip   Operation = "skip"
)

type File struct {
	Path    string
	Content string
}

type Commit struct {
	Message     string
	AuthorName  string
	AuthorEmail string
}

// FileService is a Git backend addressing files by path on a fixed branch.
// Lookup returns NotFound with a nil error only when the file is absent; any
// other failure is an error.
type FileService interface {
	Lookup(ctx context.Context, path string) (File, Existence, error)
	Create(ctx context.Context, path, content string, commit Commit) error
	Update(ctx context.Context, path, content string, commit Commit) error
	Delete(ctx context.Context, path string, commit Commit) error
}

type Result struct {
	Operation Operation `json:"operation"`
	Path      string    `json:"path"`
	Branch    string    `json:"branch"`
	Reason    string    `json:"reason,omitempty"`
}

type Service struct {
	Files FileService
}

type Convention struct {
	Config  config.Config
	Service Service
}

func FromServices(c config.Config, files FileService) Convention {
	return Convention{
		Config: c,
		Service: Service{
			Files: files,
		},
	}
}

var sanitizer = strings.NewReplacer(
	" ", "-",
	"(", "-",
	")", "-",
	"{", "-",
	"}", "-",
	"_", "-",
	"=", "-",
	"+", "-",
	".", "-",
	",", "-",
)

// Sanitize lower-cases a blueprint name and maps punctuation to single hyphens.
func Sanitize(name string) string {
	s := sanitizer.Replace(strings.ToLower(name))
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return s
}

func Path(folder, name string) string {
	return folder + Sanitize(name) + Filename
}

func (c Convention) Path() string {
	return Path(c.Config.Git.FolderPath, c.Config.Blueprint.Name)
}

// Sync converges the repository file with the event. content is the
// transformed blueprint body and is ignored for deletions.
func (c Convention) Sync(ctx context.Context, content string) (Result, error) {
	switch c.Config.Event.Type {
	case config.EventCreateBlueprintVersion, config.EventTest:
		return c.Upsert(ctx, content)
	case config.EventDeleteBlueprint:
		return c.Remove(ctx)
	}

	return c.result(OperationSkip, fmt.Sprintf("event type %s is not synchronized", c.Config.Event.Type)), nil
}

func (c Convention) Upsert(ctx context.Context, content string) (Result, error) {
	path := c.Path()

	_, existence, err := c.Service.Files.Lookup(ctx, path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to look up %s: %w", path, err)
	}

	log.Info().Str("path", path).Stringer("existence", existence).Msg("checked repository file")

	if existence == Found {
		if err := c.Service.Files.Update(ctx, path, content, c.commit("Updated by")); err != nil {
			return Result{}, fmt.Errorf("failed to update %s: %w", path, err)
		}

		log.Info().Str("path", path).Msg("updated repository file")
		return c.result(OperationUpdate, ""), nil
	}

	if err := c.Service.Files.Create(ctx, path, Placeholder, c.commit("Created by")); err != nil {
		return Result{}, fmt.Errorf("failed to create %s: %w", path, err)
	}

	log.Info().Str("path", path).Msg("created repository file, adding content")

	if err := c.Service.Files.Update(ctx, path, content, c.commit("Updated by")); err != nil {
		return Result{}, fmt.Errorf("failed to write content to %s: %w", path, err)
	}

	return c.result(OperationCreate, ""), nil
}

func (c Convention) Remove(ctx context.Context) (Result, error) {
	path := c.Path()

	file, existence, err := c.Service.Files.Lookup(ctx, path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to look up %s: %w", path, err)
	}

	if existence == NotFound {
		log.Info().Str("path", path).Msg("repository file does not exist, nothing to delete")
		return c.result(OperationSkip, "file does not exist"), nil
	}

	if !DeletePermitted(file.Content) {
		log.Info().
			Str("path", path).
			Str("marker", DeleteMarker).
			Msg("skipping deletion, blueprint does not permit it")
		return c.result(OperationSkip, "blueprint option "+DeleteMarker+" not set"), nil
	}

	if err := c.Service.Files.Delete(ctx, path, c.commit("Deleted by")); err != nil {
		return Result{}, fmt.Errorf("failed to delete %s: %w", path, err)
	}

	log.Info().Str("path", path).Msg("deleted repository file")
	return c.result(OperationDelete, ""), nil
}

// DeletePermitted reports whether stored content carries DeleteMarker, ignoring case.
func DeletePermitted(content string) bool {
	return strings.Contains(strings.ToLower(content), strings.ToLower(DeleteMarker))
}

func (c Convention) commit(verb string) Commit {
	author := c.Config.Author()

	commit := Commit{
		Message:    verb + " " + author,
		AuthorName: author,
	}

	if strings.Contains(author, "@") {
		commit.AuthorEmail = author
	}

	return commit
}

func (c Convention) result(op Operation, reason string) Result {
	return Result{
		Operation: op,
		Path:      c.Path(),
		Branch:    c.Config.Git.Branch,
		Reason:    reason,
	}
}

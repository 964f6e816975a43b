package gitlab

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/linecard/bpsync/pkg/convention/repository"

	"github.com/go-resty/resty/v2"
)

const FilesPath = "/api/v4/projects/{id}/repository/files/{path}"

type file struct {
	FilePath string `json:"file_path"`
	Encoding string `json:"encoding"`
	Content  string `json:"content"`
}

type write struct {
	Branch        string `json:"branch"`
	Content       string `json:"content,omitempty"`
	Encoding      string `json:"encoding,omitempty"`
	CommitMessage string `json:"commit_message"`
	AuthorName    string `json:"author_name,omitempty"`
	AuthorEmail   string `json:"author_email,omitempty"`
}

type Client struct {
	Rest *resty.Client
}

// Service implements repository.FileService over the GitLab v4 repository files API.
type Service struct {
	Client    Client
	ProjectId int
	Branch    string
}

func NewClient(baseUrl, privateToken string) *resty.Client {
	return resty.New().
		SetBaseURL(baseUrl).
		SetHeader("PRIVATE-TOKEN", privateToken).
		SetHeader("Accept", "application/json")
}

func FromClients(rest *resty.Client, projectId int, branch string) Service {
	return Service{
		Client: Client{
			Rest: rest,
		},
		ProjectId: projectId,
		Branch:    branch,
	}
}

func (s Service) request(ctx context.Context, path string) *resty.Request {
	return s.Client.Rest.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"id":   strconv.Itoa(s.ProjectId),
			"path": path,
		})
}

func (s Service) Lookup(ctx context.Context, path string) (repository.File, repository.Existence, error) {
	resp, err := s.request(ctx, path).
		SetQueryParam("ref", s.Branch).
		Get(FilesPath)
	if err != nil {
		return repository.File{}, repository.NotFound, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode() == http.StatusNotFound {
		return repository.File{}, repository.NotFound, nil
	}

	if resp.StatusCode() != http.StatusOK {
		return repository.File{}, repository.NotFound, fmt.Errorf("API returned status %d: %s", resp.StatusCode(), resp.String())
	}

	var f file
	if err := json.Unmarshal(resp.Body(), &f); err != nil {
		return repository.File{}, repository.NotFound, fmt.Errorf("failed to decode response: %w", err)
	}

	content := f.Content
	if f.Encoding == "base64" {
		decoded, err := base64.StdEncoding.DecodeString(f.Content)
		if err != nil {
			return repository.File{}, repository.NotFound, fmt.Errorf("failed to decode file content: %w", err)
		}
		content = string(decoded)
	}

	return repository.File{Path: path, Content: content}, repository.Found, nil
}

func (s Service) Create(ctx context.Context, path, content string, commit repository.Commit) error {
	return s.send(ctx, http.MethodPost, path, s.write(content, commit))
}

func (s Service) Update(ctx context.Context, path, content string, commit repository.Commit) error {
	return s.send(ctx, http.MethodPut, path, s.write(content, commit))
}

func (s Service) Delete(ctx context.Context, path string, commit repository.Commit) error {
	body := s.write("", commit)
	body.Encoding = ""
	return s.send(ctx, http.MethodDelete, path, body)
}

func (s Service) write(content string, commit repository.Commit) write {
	return write{
		Branch:        s.Branch,
		Content:       content,
		Encoding:      "text",
		CommitMessage: commit.Message,
		AuthorName:    commit.AuthorName,
		AuthorEmail:   commit.AuthorEmail,
	}
}

func (s Service) send(ctx context.Context, method, path string, body write) error {
	resp, err := s.request(ctx, path).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Execute(method, FilesPath)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	if resp.IsError() {
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode(), resp.String())
	}

	return nil
}

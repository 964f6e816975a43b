package platform

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

const (
	LoginPath      = "/iaas/api/login"
	BlueprintsPath = "/blueprint/api/blueprints/{id}"
	ApiVersion     = "2019-09-12"
)

type Blueprint struct {
	Id      string `json:"id"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

type Client struct {
	Rest *resty.Client
}

type Service struct {
	Client Client
}

// NewClient returns a client for the automation platform API. Resty retries
// are left at zero; a failed call fails the invocation.
func NewClient(baseUrl string, insecureSkipVerify bool) *resty.Client {
	client := resty.New().
		SetBaseURL(baseUrl).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")

	if insecureSkipVerify {
		client.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}

	return client
}

func FromClients(rest *resty.Client) Service {
	return Service{
		Client: Client{
			Rest: rest,
		},
	}
}

// Login exchanges a refresh token for a bearer token. The call itself is unauthenticated.
func (s Service) Login(ctx context.Context, refreshToken string) (string, error) {
	resp, err := s.Client.Rest.R().
		SetContext(ctx).
		SetBody(map[string]string{"refreshToken": refreshToken}).
		Post(LoginPath)
	if err != nil {
		return "", fmt.Errorf("login request failed: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("login returned status %d", resp.StatusCode())
	}

	var body struct {
		Token string `json:"token"`
	}

	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return "", fmt.Errorf("failed to decode login response: %w", err)
	}

	if body.Token == "" {
		return "", fmt.Errorf("login response carried no token")
	}

	return body.Token, nil
}

func (s Service) Blueprint(ctx context.Context, bearerToken, id string) (Blueprint, error) {
	resp, err := s.Client.Rest.R().
		SetContext(ctx).
		SetAuthToken(bearerToken).
		SetPathParam("id", id).
		SetQueryParams(map[string]string{
			"$select":    "*",
			"apiVersion": ApiVersion,
		}).
		Get(BlueprintsPath)
	if err != nil {
		return Blueprint{}, fmt.Errorf("blueprint request failed: %w", err)
	}

	if resp.IsError() {
		return Blueprint{}, fmt.Errorf("blueprint %s returned status %d: %s", id, resp.StatusCode(), resp.String())
	}

	var blueprint Blueprint
	if err := json.Unmarshal(resp.Body(), &blueprint); err != nil {
		return Blueprint{}, fmt.Errorf("failed to decode blueprint %s: %w", id, err)
	}

	return blueprint, nil
}

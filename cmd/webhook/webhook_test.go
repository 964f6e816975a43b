package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/linecard/bpsync/pkg/convention/action"
	"github.com/linecard/bpsync/pkg/convention/config"
	"github.com/linecard/bpsync/pkg/convention/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type invoker func(ctx context.Context, payload json.RawMessage) (action.Output, error)

func (f invoker) Invoke(ctx context.Context, payload json.RawMessage) (action.Output, error) {
	return f(ctx, payload)
}

func TestRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		invoke     invoker
		wantStatus int
		test       func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:       "health check",
			method:     http.MethodGet,
			path:       "/healthz",
			wantStatus: http.StatusOK,
		},
		{
			name:   "event is passed through and the output returned",
			method: http.MethodPost,
			path:   "/events",
			body:   `{"eventType":"CREATE_BLUEPRINT_VERSION"}`,
			invoke: func(ctx context.Context, payload json.RawMessage) (action.Output, error) {
				assert.JSONEq(t, `{"eventType":"CREATE_BLUEPRINT_VERSION"}`, string(payload))
				return action.Output{Sync: &repository.Result{Operation: repository.OperationCreate, Path: "web-app/blueprint.yaml"}}, nil
			},
			wantStatus: http.StatusOK,
			test: func(t *testing.T, w *httptest.ResponseRecorder) {
				var out action.Output
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
				assert.Equal(t, repository.OperationCreate, out.Sync.Operation)
			},
		},
		{
			name:       "malformed body is rejected",
			method:     http.MethodPost,
			path:       "/events",
			body:       `{"eventType":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "configuration errors are client errors",
			method: http.MethodPost,
			path:   "/events",
			body:   `{}`,
			invoke: func(ctx context.Context, payload json.RawMessage) (action.Output, error) {
				return action.Output{}, fmt.Errorf("%w: inlineGitToken is required", config.ErrConfiguration)
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "other errors are server errors",
			method: http.MethodPost,
			path:   "/events",
			body:   `{}`,
			invoke: func(ctx context.Context, payload json.RawMessage) (action.Output, error) {
				return action.Output{}, fmt.Errorf("API returned status 502")
			},
			wantStatus: http.StatusInternalServerError,
			test: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.Contains(t, w.Body.String(), "502")
			},
		},
		{
			name:       "unknown routes",
			method:     http.MethodGet,
			path:       "/nope",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			invoke := tc.invoke
			if invoke == nil {
				invoke = func(ctx context.Context, payload json.RawMessage) (action.Output, error) {
					t.Fatal("invoker must not be called")
					return action.Output{}, nil
				}
			}

			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			w := httptest.NewRecorder()
			Router(invoke).ServeHTTP(w, req)

			assert.Equal(t, tc.wantStatus, w.Code)
			if tc.test != nil {
				tc.test(t, w)
			}
		})
	}
}

func TestListen(t *testing.T) {
	assert.Equal(t, ":9000", Listen(":9000"))
	assert.Equal(t, "0.0.0.0:8081", Listen(""))

	t.Setenv("AWS_LWA_PORT", "8080")
	assert.Equal(t, "0.0.0.0:8080", Listen(":9000"))
}

package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inErrors "github.com/Alturino/storefront/internal/errors"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/portfolio/internal/service"
	"github.com/Alturino/storefront/portfolio/pkg/request"
	"github.com/Alturino/storefront/portfolio/pkg/response"
)

type stubProjects struct {
	err error
}

var demo = "https://example.com"

var seeded = []response.Project{
	{ID: 1, Title: "E-commerce website and dash", Tags: []string{"React", "Frontend"}, DemoURL: &demo},
	{ID: 2, Title: "AI Content Generator", Tags: []string{"AI", "Full Stack"}},
}

func (s stubProjects) ListProjects(context.Context) ([]response.Project, error) {
	return seeded, s.err
}

func (s stubProjects) GetProject(_ context.Context, id int) (response.Project, error) {
	if s.err != nil {
		return response.Project{}, s.err
	}
	for _, p := range seeded {
		if p.ID == id {
			return p, nil
		}
	}
	return response.Project{}, inErrors.ErrProjectNotFound
}

type stubSender struct {
	err error
}

func (s stubSender) Send(context.Context, request.ContactForm) error {
	return s.err
}

type envelope struct {
	Status     string                     `json:"status"`
	StatusCode int                        `json:"statusCode"`
	Message    string                     `json:"message"`
	Data       map[string]json.RawMessage `json:"data"`
}

func serve(t *testing.T, projects stubProjects, sender stubSender, method, target, body string) (int, envelope) {
	t.Helper()
	router := mux.NewRouter()
	AttachPortfolioController(router, service.NewPortfolioService(projects, sender))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec.Code, env
}

func TestFindProjects(t *testing.T) {
	code, env := serve(t, stubProjects{}, stubSender{}, http.MethodGet, "/projects?tag=Full+Stack", "")
	require.Equal(t, http.StatusOK, code)

	var projects []response.Project
	require.NoError(t, json.Unmarshal(env.Data["projects"], &projects))
	require.Len(t, projects, 1)
	assert.Equal(t, 2, projects[0].ID)
	assert.Nil(t, projects[0].DemoURL)
	assert.NotContains(t, string(env.Data["projects"]), "demoUrl")

	var filters []string
	require.NoError(t, json.Unmarshal(env.Data["filters"], &filters))
	assert.Equal(t, service.Filters, filters)

	code, env = serve(t, stubProjects{}, stubSender{}, http.MethodGet, "/projects", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `"All"`, string(env.Data["tag"]))
}

func TestFindProjectsFailure(t *testing.T) {
	code, env := serve(t, stubProjects{err: errors.New("down")}, stubSender{}, http.MethodGet, "/projects", "")

	assert.Equal(t, http.StatusBadGateway, code)
	assert.Equal(t, service.MessageFetchFailed, env.Message)
}

func TestFindProject(t *testing.T) {
	code, _ := serve(t, stubProjects{}, stubSender{}, http.MethodGet, "/projects/1", "")
	assert.Equal(t, http.StatusOK, code)

	code, env := serve(t, stubProjects{}, stubSender{}, http.MethodGet, "/projects/3", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, inHttp.StatusFailed, env.Status)

	code, _ = serve(t, stubProjects{}, stubSender{}, http.MethodGet, "/projects/x", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestSendContact(t *testing.T) {
	valid := `{"name":"Ada","email":"ada@example.com","subject":"Hello","message":"Let's talk"}`

	tests := []struct {
		name    string
		sender  stubSender
		body    string
		code    int
		message string
	}{
		{name: "sent", body: valid, code: http.StatusOK, message: service.MessageContactSent},
		{name: "remote failure", sender: stubSender{err: inErrors.ErrUpstream}, body: valid, code: http.StatusBadGateway, message: service.MessageContactFailed},
		{name: "invalid email", body: `{"name":"Ada","email":"nope","subject":"Hello","message":"Hi"}`, code: http.StatusBadRequest},
		{name: "missing field", body: `{"name":"Ada","email":"ada@example.com","message":"Hi"}`, code: http.StatusBadRequest},
		{name: "malformed body", body: `{`, code: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := serve(t, stubProjects{}, tt.sender, http.MethodPost, "/contact", tt.body)
			require.Equal(t, tt.code, code)
			if tt.message == "" {
				return
			}
			assert.Equal(t, tt.message, env.Message)
			var status response.ContactStatus
			require.NoError(t, json.Unmarshal(env.Data["contact"], &status))
			assert.Equal(t, tt.code == http.StatusOK, status.Success)
		})
	}
}

package bitbucket_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bb "github.com/byte4ever/somafreeze/freeze/registry/bitbucket"
)

func validConfig() bb.Config {
	return bb.Config{
		APIEndpoint: "https://bb.example.com/rest",
		ProjectKey:  "PROT",
		RepoSlug:    "baselines",
		User:        "admin",
		Password:    "secret",
	}
}

func TestNewProvider_valid(t *testing.T) {
	t.Parallel()

	pv, err := bb.NewProvider(validConfig())

	require.NoError(t, err)
	assert.NotNil(t, pv)
}

func TestNewProvider_missing_endpoint(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.APIEndpoint = ""

	pv, err := bb.NewProvider(cfg)

	assert.Nil(t, pv)
	assert.ErrorContains(t, err, "api endpoint")
}

func TestNewProvider_missing_project_key(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.ProjectKey = ""

	pv, err := bb.NewProvider(cfg)

	assert.Nil(t, pv)
	assert.ErrorContains(t, err, "project key")
}

func TestNewProvider_missing_repo_slug(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.RepoSlug = ""

	pv, err := bb.NewProvider(cfg)

	assert.Nil(t, pv)
	assert.ErrorContains(t, err, "repo slug")
}

func TestNewProvider_missing_user(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.User = ""

	pv, err := bb.NewProvider(cfg)

	assert.Nil(t, pv)
	assert.ErrorContains(t, err, "user must be set")
}

func TestNewProvider_missing_password(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Password = ""

	pv, err := bb.NewProvider(cfg)

	assert.Nil(t, pv)
	assert.ErrorContains(t, err, "password")
}

func TestProvider_CreatePR_created(t *testing.T) {
	t.Parallel()

	var gotBody []byte

	ts := httptest.NewServer(
		http.HandlerFunc(
			func(
				w http.ResponseWriter,
				r *http.Request,
			) {
				var err error

				gotBody, err = io.ReadAll(r.Body)
				if err != nil {
					http.Error(
						w,
						"read error",
						http.StatusInternalServerError,
					)

					return
				}

				w.WriteHeader(http.StatusCreated)
			},
		),
	)
	defer ts.Close()

	cfg := validConfig()
	cfg.APIEndpoint = ts.URL

	pv, err := bb.NewProvider(cfg)
	require.NoError(t, err)

	err = pv.CreatePR(
		context.Background(),
		"freeze/plasma",
		"main",
		"Freeze plasma 1.0",
		"hello world",
	)

	require.NoError(t, err)
	assert.Contains(
		t, string(gotBody),
		`"title":"Freeze plasma 1.0"`,
	)
	assert.Contains(
		t, string(gotBody),
		`"description":"hello world"`,
	)
	assert.Contains(
		t, string(gotBody),
		`refs/heads/freeze/plasma`,
	)
	assert.Contains(
		t, string(gotBody), `"slug":"baselines"`,
	)
	assert.Contains(
		t, string(gotBody), `"key":"PROT"`,
	)
}

func TestProvider_CreatePR_conflict(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(
		http.HandlerFunc(
			func(
				w http.ResponseWriter,
				_ *http.Request,
			) {
				w.WriteHeader(http.StatusConflict)
			},
		),
	)
	defer ts.Close()

	cfg := validConfig()
	cfg.APIEndpoint = ts.URL

	pv, err := bb.NewProvider(cfg)
	require.NoError(t, err)

	err = pv.CreatePR(
		context.Background(),
		"a", "b", "t", "d",
	)

	assert.NoError(t, err)
}

func TestProvider_CreatePR_unexpected_status(
	t *testing.T,
) {
	t.Parallel()

	ts := httptest.NewServer(
		http.HandlerFunc(
			func(
				w http.ResponseWriter,
				_ *http.Request,
			) {
				w.WriteHeader(
					http.StatusInternalServerError,
				)
			},
		),
	)
	defer ts.Close()

	cfg := validConfig()
	cfg.APIEndpoint = ts.URL

	pv, err := bb.NewProvider(cfg)
	require.NoError(t, err)

	err = pv.CreatePR(
		context.Background(),
		"a", "b", "t", "d",
	)

	assert.ErrorContains(t, err, "unexpected status")
}

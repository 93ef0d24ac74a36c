package solver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/sma-timetable-editor/pkg/errors"
)

func solverRequest() GenerateRequest {
	return GenerateRequest{Level: "senior", Days: 1, Blocks: 2, Grades: 2}
}

func assertGenerationFailed(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrGenerationFailed.Code, appErr.Code)
}

func TestClientGenerateSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/generate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req GenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "senior", req.Level)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"cells": [][][]int{{{10, 0}, {0, 12}}},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, nil)
	grid, err := client.Generate(context.Background(), solverRequest())
	require.NoError(t, err)
	assert.Equal(t, 10, grid.Get(0, 0, 0))
	assert.Equal(t, 12, grid.Get(0, 1, 1))
}

func TestClientGenerateUnreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 200*time.Millisecond, nil)
	_, err := client.Generate(context.Background(), solverRequest())
	assertGenerationFailed(t, err)
}

func TestClientGenerateNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, nil)
	_, err := client.Generate(context.Background(), solverRequest())
	assertGenerationFailed(t, err)
}

func TestClientGenerateSolverError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"error": "infeasible problem"})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, nil)
	_, err := client.Generate(context.Background(), solverRequest())
	assertGenerationFailed(t, err)
}

func TestClientGenerateMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, nil)
	_, err := client.Generate(context.Background(), solverRequest())
	assertGenerationFailed(t, err)
}

func TestClientGenerateShapeMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"cells": [][][]int{{{10}}},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, nil)
	_, err := client.Generate(context.Background(), solverRequest())
	assertGenerationFailed(t, err)
}

func TestClientGenerateEmptyGrid(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"cells": [][][]int{{{0, 0}, {0, 0}}},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, nil)
	_, err := client.Generate(context.Background(), solverRequest())
	assertGenerationFailed(t, err)
}

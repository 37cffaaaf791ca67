package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/shelf-cli/pkg/auth"
	"github.com/open-cli-collective/shelf-cli/pkg/valueeditor"
)

// decodeCall reads a function call body.
func decodeCall(t *testing.T, r *http.Request) (string, map[string]interface{}) {
	t.Helper()
	body, err := io.ReadAll(r.Body)
	require.NoError(t, err)

	var req struct {
		Path   string                 `json:"path"`
		Args   map[string]interface{} `json:"args"`
		Format string                 `json:"format"`
	}
	require.NoError(t, json.Unmarshal(body, &req))
	assert.Equal(t, "json", req.Format)
	return req.Path, req.Args
}

func TestClient_Query(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/query", r.URL.Path)
		assert.Equal(t, "POST", r.Method)
		path, args := decodeCall(t, r)
		assert.Equal(t, "general:echo", path)
		assert.Equal(t, "hi", args["text"])

		w.Write([]byte(`{"status":"success","value":{"text":"hi"}}`))
	}))
	defer server.Close()

	var out struct {
		Text string `json:"text"`
	}
	err := NewClient(server.URL, "").Query(context.Background(), "general:echo", map[string]string{"text": "hi"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "hi", out.Text)
}

func TestClient_MutationAndActionEndpoints(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Write([]byte(`{"status":"success","value":null}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	require.NoError(t, client.Mutation(context.Background(), "assets:touch", nil, nil))
	require.NoError(t, client.Action(context.Background(), "assets:sync", nil, nil))
	assert.Equal(t, []string{"/api/mutation", "/api/action"}, paths)
}

func TestClient_FunctionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"error","errorMessage":"Uncaught ConvexError","errorData":{"email":{"_errors":["Invalid email"]}}}`))
	}))
	defer server.Close()

	err := NewClient(server.URL, "").Query(context.Background(), "fields:list", nil, nil)
	require.Error(t, err)

	var apiErr *ErrorResponse
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Uncaught ConvexError", apiErr.Message)
	assert.JSONEq(t, `{"email":{"_errors":["Invalid email"]}}`, string(apiErr.Data))
}

func TestClient_SignIn(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/action", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		path, args := decodeCall(t, r)
		assert.Equal(t, "auth:signIn", path)
		assert.Equal(t, "password", args["provider"])
		params := args["params"].(map[string]interface{})
		assert.Equal(t, "ada@example.com", params["email"])
		assert.Equal(t, "correct-horse-battery", params["password"])
		assert.Equal(t, "signIn", params["flow"])

		w.Write([]byte(`{"status":"success","value":{"tokens":{"token":"jwt","refreshToken":"refresh"}}}`))
	}))
	defer server.Close()

	session, err := NewClient(server.URL, "").SignIn(context.Background(), auth.Profile{Email: "ada@example.com"}, "correct-horse-battery")
	require.NoError(t, err)
	assert.Equal(t, &Session{Token: "jwt", RefreshToken: "refresh"}, session)
}

func TestClient_SignIn_NoTokens(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","value":{"tokens":null}}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "").SignIn(context.Background(), auth.Profile{Email: "ada@example.com"}, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no session")
}

func TestClient_Viewer_SignedOut(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","value":null}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "stale").Viewer(context.Background())
	require.Error(t, err)
	var apiErr *ErrorResponse
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 401, apiErr.StatusCode)
}

func TestClient_ListFields(t *testing.T) {
	testData := loadTestData(t, "fields.json")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path, _ := decodeCall(t, r)
		assert.Equal(t, "fields:list", path)
		w.Write(testData)
	}))
	defer server.Close()

	fields, err := NewClient(server.URL, "tok").ListFields(context.Background())
	require.NoError(t, err)
	require.Len(t, fields, 3)

	assert.Equal(t, "serial", fields[0].Name)
	assert.Equal(t, "Serial number", fields[0].Title())
	assert.Equal(t, valueeditor.TypeText, fields[0].Type)
	assert.True(t, fields[0].Required)

	assert.Equal(t, "status", fields[1].Name)
	assert.Equal(t, []valueeditor.Option{{Name: "active", Label: "Active"}, {Name: "retired", Label: "Retired"}}, fields[1].Options)

	assert.Equal(t, "warranty", fields[2].Title())

	f, ok := FieldByName(fields, "status")
	assert.True(t, ok)
	assert.Equal(t, valueeditor.TypeSelect, f.Type)
	_, ok = FieldByName(fields, "missing")
	assert.False(t, ok)
}

func TestClient_FilterAssets(t *testing.T) {
	testData := loadTestData(t, "assets.json")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path, args := decodeCall(t, r)
		assert.Equal(t, "assets:filter", path)

		query := args["query"].(map[string]interface{})
		assert.Equal(t, "and", query["combinator"])
		rules := query["rules"].([]interface{})
		require.Len(t, rules, 1)
		assert.Equal(t, "status", rules[0].(map[string]interface{})["field"])

		pagination := args["paginationOpts"].(map[string]interface{})
		assert.Equal(t, float64(10), pagination["numItems"])
		assert.Equal(t, "cursor-1", pagination["cursor"])

		w.Write(testData)
	}))
	defer server.Close()

	page, err := NewClient(server.URL, "tok").FilterAssets(context.Background(), &FilterOptions{
		Query:  RuleGroup{Rules: []Rule{{Field: "status", Operator: "=", Value: "active"}}},
		Limit:  10,
		Cursor: "cursor-1",
	})
	require.NoError(t, err)
	require.Len(t, page.Page, 2)
	assert.Equal(t, "a1", page.Page[0].ID)
	assert.Equal(t, "SN-0001", page.Page[0].Fields["serial"])
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), page.Page[0].CreationTime.Time)
	assert.True(t, page.HasMore())
}

func TestClient_FilterAssets_FirstPageSendsNullCursor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, args := decodeCall(t, r)
		pagination := args["paginationOpts"].(map[string]interface{})
		assert.Equal(t, float64(25), pagination["numItems"])
		cursor, present := pagination["cursor"]
		assert.True(t, present)
		assert.Nil(t, cursor)

		w.Write([]byte(`{"status":"success","value":{"page":[],"isDone":true,"continueCursor":""}}`))
	}))
	defer server.Close()

	page, err := NewClient(server.URL, "tok").FilterAssets(context.Background(), &FilterOptions{
		Query: RuleGroup{Combinator: "or", Rules: []Rule{{Field: "serial", Operator: "null"}}},
	})
	require.NoError(t, err)
	assert.Empty(t, page.Page)
	assert.False(t, page.HasMore())
}

func TestClient_FilterAssets_RequiresRules(t *testing.T) {
	_, err := NewClient("http://unused", "").FilterAssets(context.Background(), &FilterOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one rule")
}

func TestTime_JSON(t *testing.T) {
	var ts Time
	require.NoError(t, json.Unmarshal([]byte(`1735689600000`), &ts))
	assert.Equal(t, 2025, ts.Year())

	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, "1735689600000", string(data))

	var empty Time
	require.NoError(t, json.Unmarshal([]byte(`null`), &empty))
	assert.True(t, empty.IsZero())
}

func TestLoadFieldsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fields.yml")
	require.NoError(t, os.WriteFile(path, []byte(`fields:
  - name: status
    label: Status
    type: select
    values:
      - {name: active, label: Active}
      - {name: retired, label: Retired}
  - name: serial
    required: true
`), 0600))

	fields, err := LoadFieldsFile(path)
	require.NoError(t, err)
	require.Len(t, fields, 2)

	assert.Equal(t, "serial", fields[0].Name)
	assert.Equal(t, valueeditor.TypeText, fields[0].Type)
	assert.True(t, fields[0].Required)

	assert.Equal(t, "Status", fields[1].Title())
	assert.Equal(t, valueeditor.TypeSelect, fields[1].Type)
	assert.Equal(t, "active", valueeditor.FirstOption(fields[1].Options))
}

func TestLoadFieldsFile_Errors(t *testing.T) {
	_, err := LoadFieldsFile(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read fields file")

	path := filepath.Join(t.TempDir(), "fields.yml")
	require.NoError(t, os.WriteFile(path, []byte("fields:\n  - label: No name\n"), 0600))
	_, err = LoadFieldsFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no name")
}

package linear

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/linearapp/linear-mcp-server/pkg/linearapi"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

type capturedGraphQL struct {
	Query     string
	Variables map[string]any
}

// stubLinearClient returns a client whose transport replays the given
// response bodies in order and captures every GraphQL request.
func stubLinearClient(t *testing.T, responses ...string) (*linearapi.Client, *[]capturedGraphQL) {
	t.Helper()

	captured := &[]capturedGraphQL{}
	i := 0
	rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		body, err := io.ReadAll(req.Body)
		require.NoError(t, err)

		var gql struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		require.NoError(t, json.Unmarshal(body, &gql))
		*captured = append(*captured, capturedGraphQL{Query: gql.Query, Variables: gql.Variables})

		require.Less(t, i, len(responses), "unexpected extra graphql request: %s", gql.Query)
		resp := &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(responses[i])),
		}
		i++
		return resp, nil
	})

	client := linearapi.NewClient("test-key", linearapi.WithHTTPClient(&http.Client{Transport: rt}))
	return client, captured
}

// stubDeps wraps a stubbed Linear client in BaseDeps.
func stubDeps(t *testing.T, responses ...string) (BaseDeps, *[]capturedGraphQL) {
	t.Helper()
	client, captured := stubLinearClient(t, responses...)
	return BaseDeps{Client: client}, captured
}

func createMCPRequest(args any) mcp.CallToolRequest {
	// convert args to map[string]interface{} and serialize to JSON
	argsMap, ok := args.(map[string]interface{})
	if !ok {
		argsMap = make(map[string]interface{})
	}

	argsJSON, err := json.Marshal(argsMap)
	if err != nil {
		return mcp.CallToolRequest{}
	}

	jsonRawMessage := json.RawMessage(argsJSON)

	return mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{
			Arguments: jsonRawMessage,
		},
	}
}

// getTextResult is a helper function that returns a text result from a tool call.
func getTextResult(t *testing.T, result *mcp.CallToolResult) *mcp.TextContent {
	t.Helper()
	assert.NotNil(t, result)
	require.Len(t, result.Content, 1)
	textContent, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected content to be of type TextContent")
	return textContent
}

func getErrorResult(t *testing.T, result *mcp.CallToolResult) *mcp.TextContent {
	res := getTextResult(t, result)
	require.True(t, result.IsError, "expected tool call result to be an error")
	return res
}

const issueNodeJSON = `{
	"id": "issue-1",
	"identifier": "ENG-42",
	"title": "Fix login flow",
	"description": "Users get logged out",
	"priority": 2,
	"state": {"id": "s2", "name": "In Progress"},
	"assignee": {"id": "user-1", "name": "Alice"},
	"team": {"id": "team-1", "key": "ENG"},
	"labels": {"nodes": [{"name": "bug"}]},
	"url": "https://linear.app/acme/issue/ENG-42",
	"createdAt": "2024-01-15T10:30:00.000Z",
	"updatedAt": "2024-01-16T08:00:00.000Z"
}`

package linear

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/linearapp/linear-mcp-server/pkg/inventory"
	"github.com/linearapp/linear-mcp-server/pkg/linearapi"
	"github.com/linearapp/linear-mcp-server/pkg/translations"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readResource(t *testing.T, deps BaseDeps, template inventory.ServerResourceTemplate, uri string) (*mcp.ReadResourceResult, error) {
	t.Helper()
	handler := template.Handler(deps)
	return handler(context.Background(), &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: uri},
	})
}

func requireJSONContents(t *testing.T, result *mcp.ReadResourceResult, uri string) string {
	t.Helper()
	require.NotNil(t, result)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, uri, result.Contents[0].URI)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)
	return result.Contents[0].Text
}

func TestIssueResource(t *testing.T) {
	t.Parallel()

	template := IssueResource(translations.NullTranslationHelper)
	assert.Equal(t, "issue", template.Template.Name)
	assert.Equal(t, "linear-issue:///{issueId}", template.Template.URITemplate)

	t.Run("returns the issue as JSON", func(t *testing.T) {
		t.Parallel()

		deps, _ := stubDeps(t, `{"data": {"issue": `+issueNodeJSON+`}}`)
		result, err := readResource(t, deps, template, "linear-issue:///issue-1")
		require.NoError(t, err)

		var issue linearapi.Issue
		require.NoError(t, json.Unmarshal([]byte(requireJSONContents(t, result, "linear-issue:///issue-1")), &issue))
		assert.Equal(t, "ENG-42", issue.Identifier)
		assert.Equal(t, "Fix login flow", issue.Title)
	})

	t.Run("propagates not found", func(t *testing.T) {
		t.Parallel()

		deps, _ := stubDeps(t, `{"data": {"issue": null}}`)
		_, err := readResource(t, deps, template, "linear-issue:///missing")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "issue missing not found")
	})

	t.Run("rejects non-matching URI", func(t *testing.T) {
		t.Parallel()

		deps, _ := stubDeps(t)
		_, err := readResource(t, deps, template, "linear-team:///team-1/issues")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to match URI")
	})
}

func TestTeamIssuesResource(t *testing.T) {
	t.Parallel()

	template := TeamIssuesResource(translations.NullTranslationHelper)
	assert.Equal(t, "team_issues", template.Template.Name)
	assert.Equal(t, "linear-team:///{teamId}/issues", template.Template.URITemplate)

	deps, captured := stubDeps(t, `{"data": {"team": {"issues": {"nodes": [`+issueNodeJSON+`]}}}}`)
	result, err := readResource(t, deps, template, "linear-team:///team-1/issues")
	require.NoError(t, err)

	var issues []*linearapi.Issue
	require.NoError(t, json.Unmarshal([]byte(requireJSONContents(t, result, "linear-team:///team-1/issues")), &issues))
	require.Len(t, issues, 1)
	assert.Equal(t, "ENG-42", issues[0].Identifier)

	require.Len(t, *captured, 1)
	assert.Equal(t, "team-1", (*captured)[0].Variables["teamId"])
}

func TestUserAssignedIssuesResource(t *testing.T) {
	t.Parallel()

	template := UserAssignedIssuesResource(translations.NullTranslationHelper)
	assert.Equal(t, "user_assigned_issues", template.Template.Name)
	assert.Equal(t, "linear-user:///{userId}/assigned", template.Template.URITemplate)

	t.Run("me targets the viewer", func(t *testing.T) {
		t.Parallel()

		deps, captured := stubDeps(t, `{"data": {"viewer": {"assignedIssues": {"nodes": [`+issueNodeJSON+`]}}}}`)
		result, err := readResource(t, deps, template, "linear-user:///me/assigned")
		require.NoError(t, err)
		requireJSONContents(t, result, "linear-user:///me/assigned")

		require.Len(t, *captured, 1)
		assert.True(t, strings.Contains((*captured)[0].Query, "viewer"))
		assert.NotContains(t, (*captured)[0].Variables, "userId")
	})

	t.Run("explicit user ID", func(t *testing.T) {
		t.Parallel()

		deps, captured := stubDeps(t, `{"data": {"user": {"assignedIssues": {"nodes": []}}}}`)
		result, err := readResource(t, deps, template, "linear-user:///user-7/assigned")
		require.NoError(t, err)
		requireJSONContents(t, result, "linear-user:///user-7/assigned")

		require.Len(t, *captured, 1)
		assert.Equal(t, "user-7", (*captured)[0].Variables["userId"])
	})
}

func TestOrganizationResource(t *testing.T) {
	t.Parallel()

	template := OrganizationResource(translations.NullTranslationHelper)
	assert.Equal(t, "organization", template.Template.Name)
	assert.Equal(t, "linear-organization:", template.Template.URITemplate)

	deps, _ := stubDeps(t, `{"data": {"organization": {
		"id": "org-1",
		"name": "Acme",
		"urlKey": "acme",
		"teams": {"nodes": [{"id": "team-1", "name": "Engineering", "key": "ENG"}]},
		"users": {"nodes": [{"id": "user-1", "name": "Alice", "email": "alice@acme.test", "admin": true, "active": true}]}
	}}}`)
	result, err := readResource(t, deps, template, "linear-organization:")
	require.NoError(t, err)

	var org linearapi.Organization
	require.NoError(t, json.Unmarshal([]byte(requireJSONContents(t, result, "linear-organization:")), &org))
	assert.Equal(t, "Acme", org.Name)
	require.Len(t, org.Teams, 1)
	assert.Equal(t, "ENG", org.Teams[0].Key)
	require.Len(t, org.Users, 1)
	assert.True(t, org.Users[0].Admin)
}

func TestViewerResource(t *testing.T) {
	t.Parallel()

	template := ViewerResource(translations.NullTranslationHelper)
	assert.Equal(t, "viewer", template.Template.Name)
	assert.Equal(t, "linear-viewer:", template.Template.URITemplate)

	t.Run("returns the authenticated user", func(t *testing.T) {
		t.Parallel()

		deps, _ := stubDeps(t, `{"data": {
			"viewer": {
				"id": "user-1",
				"name": "Alice",
				"email": "alice@acme.test",
				"admin": false,
				"active": true,
				"teams": {"nodes": [{"id": "team-1", "name": "Engineering", "key": "ENG"}]}
			},
			"organization": {"id": "org-1", "name": "Acme", "urlKey": "acme"}
		}}`)
		result, err := readResource(t, deps, template, "linear-viewer:")
		require.NoError(t, err)

		var viewer linearapi.Viewer
		require.NoError(t, json.Unmarshal([]byte(requireJSONContents(t, result, "linear-viewer:")), &viewer))
		assert.Equal(t, "Alice", viewer.Name)
		require.NotNil(t, viewer.Organization)
		assert.Equal(t, "acme", viewer.Organization.URLKey)
	})

	t.Run("propagates not found", func(t *testing.T) {
		t.Parallel()

		deps, _ := stubDeps(t, `{"data": {"viewer": null, "organization": null}}`)
		_, err := readResource(t, deps, template, "linear-viewer:")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "viewer not found")
	})
}

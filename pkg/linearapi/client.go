package linearapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/linearapp/linear-mcp-server/pkg/errors"
	"github.com/linearapp/linear-mcp-server/pkg/sanitize"
)

// DefaultAPIURL is the Linear GraphQL endpoint.
const DefaultAPIURL = "https://api.linear.app/graphql"

// Client is a session against the Linear GraphQL API. It holds the
// endpoint and the authenticated HTTP client; all operations are methods
// on it and are safe for concurrent use.
type Client struct {
	endpoint string
	client   *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithEndpoint overrides the GraphQL endpoint. Used for tests and proxies.
func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithHTTPClient overrides the HTTP client. The caller is responsible for
// wiring authentication into its transport.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// NewClient returns a client authenticated with the given API key.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{endpoint: DefaultAPIURL}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = &http.Client{
			Transport: &APIKeyTransport{APIKey: apiKey},
			Timeout:   30 * time.Second,
		}
	}
	return c
}

// Response is the raw GraphQL response envelope. Execute returns it
// without interpreting the errors list; each operation decides how remote
// errors surface for its query shape.
type Response struct {
	Data   json.RawMessage `json:"data"`
	Errors []ResponseError `json:"errors"`
}

// ResponseError is a single error from the GraphQL errors list.
type ResponseError struct {
	Message string `json:"message"`
}

// hasData reports whether the response carries a non-null data payload.
func (r *Response) hasData() bool {
	return len(r.Data) > 0 && !bytes.Equal(r.Data, []byte("null"))
}

// firstErrorMessage returns the message of the first remote error, or a
// fallback when the errors list is empty.
func (r *Response) firstErrorMessage() string {
	if len(r.Errors) > 0 {
		return r.Errors[0].Message
	}
	return "unknown error"
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// Execute posts a GraphQL document with its variables and returns the raw
// response envelope. A non-success HTTP status yields a TransportError;
// remote errors inside a 200 response are returned to the caller untouched.
func (c *Client) Execute(ctx context.Context, document string, variables map[string]any) (*Response, error) {
	if variables == nil {
		variables = map[string]any{}
	}
	body, err := json.Marshal(graphqlRequest{Query: document, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, &errors.TransportError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(respBody)),
		}
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode graphql response: %w", err)
	}
	return &out, nil
}

// Wire types mirroring the GraphQL selection sets. These stay internal;
// operations project them into the flat records in types.go.

type stateNode struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type teamNode struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Key  string `json:"key"`
}

type userNode struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Email  *string `json:"email"`
	Admin  bool    `json:"admin"`
	Active bool    `json:"active"`
}

type labelConnection struct {
	Nodes []struct {
		Name string `json:"name"`
	} `json:"nodes"`
}

type teamConnection struct {
	Nodes []teamNode `json:"nodes"`
}

type userConnection struct {
	Nodes []userNode `json:"nodes"`
}

type issueNode struct {
	ID          string           `json:"id"`
	Identifier  string           `json:"identifier"`
	Title       string           `json:"title"`
	Description *string          `json:"description"`
	Priority    *int             `json:"priority"`
	State       *stateNode       `json:"state"`
	Assignee    *userNode        `json:"assignee"`
	Team        *teamNode        `json:"team"`
	Labels      *labelConnection `json:"labels"`
	URL         string           `json:"url"`
	CreatedAt   *time.Time       `json:"createdAt"`
	UpdatedAt   *time.Time       `json:"updatedAt"`
	ArchivedAt  *time.Time       `json:"archivedAt"`
}

type issueConnection struct {
	Nodes []issueNode `json:"nodes"`
}

type commentNode struct {
	ID        string     `json:"id"`
	Body      string     `json:"body"`
	User      *userNode  `json:"user"`
	CreatedAt *time.Time `json:"createdAt"`
}

// projectIssue flattens a wire issue into the public record. Remote
// authored text is sanitized before it reaches tool output.
func projectIssue(n *issueNode) *Issue {
	issue := &Issue{
		ID:         n.ID,
		Identifier: n.Identifier,
		Title:      sanitize.Sanitize(n.Title),
		Labels:     []string{},
		URL:        n.URL,
		CreatedAt:  n.CreatedAt,
		UpdatedAt:  n.UpdatedAt,
		ArchivedAt: n.ArchivedAt,
	}
	if n.Description != nil {
		desc := sanitize.Sanitize(*n.Description)
		issue.Description = &desc
	}
	if n.Priority != nil {
		priority := *n.Priority
		issue.Priority = &priority
	}
	if n.State != nil {
		state := n.State.Name
		issue.State = &state
	}
	if n.Assignee != nil {
		issue.Assignee = &UserSummary{ID: n.Assignee.ID, Name: n.Assignee.Name}
	}
	if n.Team != nil {
		issue.Team = &TeamSummary{ID: n.Team.ID, Key: n.Team.Key}
	}
	if n.Labels != nil {
		for _, label := range n.Labels.Nodes {
			issue.Labels = append(issue.Labels, label.Name)
		}
	}
	return issue
}

func projectIssues(nodes []issueNode) []*Issue {
	issues := make([]*Issue, 0, len(nodes))
	for i := range nodes {
		issues = append(issues, projectIssue(&nodes[i]))
	}
	return issues
}

func projectTeams(conn teamConnection) []Team {
	teams := make([]Team, 0, len(conn.Nodes))
	for _, n := range conn.Nodes {
		teams = append(teams, Team{ID: n.ID, Name: n.Name, Key: n.Key})
	}
	return teams
}

// CreateIssueParams are the inputs for CreateIssue. Title and TeamID are
// required; nil optionals are omitted from the mutation input entirely.
type CreateIssueParams struct {
	Title       string
	TeamID      string
	Description *string
	Priority    *int
	Status      *string
}

// CreateIssue creates an issue and returns its flattened record.
func (c *Client) CreateIssue(ctx context.Context, params CreateIssueParams) (*Issue, error) {
	input := map[string]any{
		"title":  params.Title,
		"teamId": params.TeamID,
	}
	if params.Description != nil {
		input["description"] = *params.Description
	}
	if params.Priority != nil {
		input["priority"] = *params.Priority
	}
	if params.Status != nil {
		stateID, ok, err := c.resolveStateID(ctx, params.TeamID, *params.Status)
		if err != nil {
			return nil, err
		}
		if ok {
			input["stateId"] = stateID
		}
	}

	resp, err := c.Execute(ctx, createIssueMutation, map[string]any{"input": input})
	if err != nil {
		return nil, err
	}
	if !resp.hasData() {
		return nil, &errors.QueryError{Message: resp.firstErrorMessage()}
	}

	var payload struct {
		IssueCreate struct {
			Success bool       `json:"success"`
			Issue   *issueNode `json:"issue"`
		} `json:"issueCreate"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode issueCreate payload: %w", err)
	}
	if !payload.IssueCreate.Success || payload.IssueCreate.Issue == nil {
		return nil, &errors.MutationError{Operation: "issue create"}
	}
	return projectIssue(payload.IssueCreate.Issue), nil
}

// UpdateIssueParams are the inputs for UpdateIssue. Only non-nil fields
// are sent, so a nil field leaves the issue untouched while a pointer to
// the empty string clears it.
type UpdateIssueParams struct {
	Title       *string
	Description *string
	Priority    *int
	Status      *string
}

// UpdateIssue applies a partial update to an issue.
func (c *Client) UpdateIssue(ctx context.Context, issueID string, params UpdateIssueParams) (*Issue, error) {
	input := map[string]any{}
	if params.Title != nil {
		input["title"] = *params.Title
	}
	if params.Description != nil {
		input["description"] = *params.Description
	}
	if params.Priority != nil {
		input["priority"] = *params.Priority
	}
	if params.Status != nil {
		teamID, err := c.issueTeamID(ctx, issueID)
		if err != nil {
			return nil, err
		}
		if teamID != "" {
			stateID, ok, err := c.resolveStateID(ctx, teamID, *params.Status)
			if err != nil {
				return nil, err
			}
			if ok {
				input["stateId"] = stateID
			}
		}
	}

	resp, err := c.Execute(ctx, updateIssueMutation, map[string]any{"id": issueID, "input": input})
	if err != nil {
		return nil, err
	}
	if !resp.hasData() {
		return nil, &errors.QueryError{Message: resp.firstErrorMessage()}
	}

	var payload struct {
		IssueUpdate struct {
			Success bool       `json:"success"`
			Issue   *issueNode `json:"issue"`
		} `json:"issueUpdate"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode issueUpdate payload: %w", err)
	}
	if !payload.IssueUpdate.Success || payload.IssueUpdate.Issue == nil {
		return nil, &errors.MutationError{Operation: "issue update"}
	}
	return projectIssue(payload.IssueUpdate.Issue), nil
}

// SearchIssuesParams are the filters for SearchIssues. Zero values mean
// the corresponding filter clause is omitted.
type SearchIssuesParams struct {
	// Query matches against issue titles and descriptions.
	Query string
	// Team scopes the search to a single team.
	Team TeamRef
	// Status matches the workflow state name exactly.
	Status string
	// AssigneeID matches the assignee by user ID.
	AssigneeID string
	// Labels matches issues carrying any of the given label names.
	Labels []string
	// Priority matches the exact priority level.
	Priority *int
	// Limit caps the number of results.
	Limit int
}

// SearchIssues runs a filtered issue search. The filter object is always
// sent, even when empty, so an unfiltered search returns the newest issues.
func (c *Client) SearchIssues(ctx context.Context, params SearchIssuesParams) ([]*Issue, error) {
	filter := map[string]any{}
	if params.Query != "" {
		filter["or"] = []map[string]any{
			{"title": map[string]any{"contains": params.Query}},
			{"description": map[string]any{"contains": params.Query}},
		}
	}
	if !params.Team.IsZero() {
		teamID, err := c.resolveTeamID(ctx, params.Team)
		if err != nil {
			return nil, err
		}
		filter["team"] = map[string]any{"id": map[string]any{"eq": teamID}}
	}
	if params.Status != "" {
		filter["state"] = map[string]any{"name": map[string]any{"eq": params.Status}}
	}
	if params.AssigneeID != "" {
		filter["assignee"] = map[string]any{"id": map[string]any{"eq": params.AssigneeID}}
	}
	if len(params.Labels) > 0 {
		filter["labels"] = map[string]any{"some": map[string]any{"name": map[string]any{"in": params.Labels}}}
	}
	if params.Priority != nil {
		filter["priority"] = map[string]any{"eq": *params.Priority}
	}

	resp, err := c.Execute(ctx, searchIssuesQuery, map[string]any{
		"first":  params.Limit,
		"filter": filter,
	})
	if err != nil {
		return nil, err
	}
	if !resp.hasData() {
		return nil, &errors.QueryError{Message: resp.firstErrorMessage()}
	}

	var payload struct {
		Issues issueConnection `json:"issues"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode issues payload: %w", err)
	}
	return projectIssues(payload.Issues.Nodes), nil
}

// UserIssuesParams are the inputs for UserIssues. An empty UserID targets
// the authenticated user.
type UserIssuesParams struct {
	UserID          string
	IncludeArchived bool
	Limit           int
}

// UserIssues lists the issues assigned to a user, newest first.
func (c *Client) UserIssues(ctx context.Context, params UserIssuesParams) ([]*Issue, error) {
	variables := map[string]any{
		"first":           params.Limit,
		"includeArchived": params.IncludeArchived,
	}

	if params.UserID == "" {
		resp, err := c.Execute(ctx, viewerIssuesQuery, variables)
		if err != nil {
			return nil, err
		}
		var payload struct {
			Viewer *struct {
				AssignedIssues issueConnection `json:"assignedIssues"`
			} `json:"viewer"`
		}
		if err := json.Unmarshal(resp.Data, &payload); err != nil {
			return nil, fmt.Errorf("failed to decode viewer issues payload: %w", err)
		}
		if payload.Viewer == nil {
			return nil, &errors.NotFoundError{Resource: "viewer"}
		}
		return projectIssues(payload.Viewer.AssignedIssues.Nodes), nil
	}

	variables["userId"] = params.UserID
	resp, err := c.Execute(ctx, userIssuesQuery, variables)
	if err != nil {
		return nil, err
	}
	var payload struct {
		User *struct {
			AssignedIssues issueConnection `json:"assignedIssues"`
		} `json:"user"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode user issues payload: %w", err)
	}
	if payload.User == nil {
		return nil, &errors.NotFoundError{Resource: "user", ID: params.UserID}
	}
	return projectIssues(payload.User.AssignedIssues.Nodes), nil
}

// AddCommentParams are the inputs for AddComment. CreateAsUser and
// DisplayIconURL customize the comment author shown in Linear; nil leaves
// the authenticated user as the author.
type AddCommentParams struct {
	IssueID        string
	Body           string
	CreateAsUser   *string
	DisplayIconURL *string
}

// AddComment adds a markdown comment to an issue.
func (c *Client) AddComment(ctx context.Context, params AddCommentParams) (*Comment, error) {
	input := map[string]any{
		"issueId": params.IssueID,
		"body":    params.Body,
	}
	if params.CreateAsUser != nil {
		input["createAsUser"] = *params.CreateAsUser
	}
	if params.DisplayIconURL != nil {
		input["displayIconUrl"] = *params.DisplayIconURL
	}

	resp, err := c.Execute(ctx, addCommentMutation, map[string]any{"input": input})
	if err != nil {
		return nil, err
	}
	if !resp.hasData() {
		return nil, &errors.QueryError{Message: resp.firstErrorMessage()}
	}

	var payload struct {
		CommentCreate struct {
			Success bool         `json:"success"`
			Comment *commentNode `json:"comment"`
		} `json:"commentCreate"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode commentCreate payload: %w", err)
	}
	if !payload.CommentCreate.Success || payload.CommentCreate.Comment == nil {
		return nil, &errors.MutationError{Operation: "comment create"}
	}

	node := payload.CommentCreate.Comment
	comment := &Comment{
		ID:        node.ID,
		Body:      sanitize.Sanitize(node.Body),
		CreatedAt: node.CreatedAt,
	}
	if node.User != nil {
		name := node.User.Name
		comment.User = &name
	}
	return comment, nil
}

// GetIssue fetches a single issue by ID.
func (c *Client) GetIssue(ctx context.Context, issueID string) (*Issue, error) {
	resp, err := c.Execute(ctx, getIssueQuery, map[string]any{"id": issueID})
	if err != nil {
		return nil, err
	}

	var payload struct {
		Issue *issueNode `json:"issue"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode issue payload: %w", err)
	}
	if payload.Issue == nil {
		return nil, &errors.NotFoundError{Resource: "issue", ID: issueID}
	}
	return projectIssue(payload.Issue), nil
}

// TeamIssues lists the issues belonging to a team.
func (c *Client) TeamIssues(ctx context.Context, teamID string) ([]*Issue, error) {
	resp, err := c.Execute(ctx, teamIssuesQuery, map[string]any{"teamId": teamID})
	if err != nil {
		return nil, err
	}

	var payload struct {
		Team *struct {
			Issues issueConnection `json:"issues"`
		} `json:"team"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode team issues payload: %w", err)
	}
	if payload.Team == nil {
		return nil, &errors.NotFoundError{Resource: "team", ID: teamID}
	}
	return projectIssues(payload.Team.Issues.Nodes), nil
}

// ListIssues lists the most recent issues in the workspace.
func (c *Client) ListIssues(ctx context.Context, limit int) ([]*Issue, error) {
	resp, err := c.Execute(ctx, listIssuesQuery, map[string]any{"first": limit})
	if err != nil {
		return nil, err
	}
	if !resp.hasData() {
		return nil, &errors.QueryError{Message: resp.firstErrorMessage()}
	}

	var payload struct {
		Issues issueConnection `json:"issues"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode issues payload: %w", err)
	}
	return projectIssues(payload.Issues.Nodes), nil
}

// Viewer fetches the authenticated user with their teams and organization.
func (c *Client) Viewer(ctx context.Context) (*Viewer, error) {
	resp, err := c.Execute(ctx, viewerQuery, nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Viewer *struct {
			ID    string         `json:"id"`
			Name  string         `json:"name"`
			Email *string        `json:"email"`
			Admin bool           `json:"admin"`
			Teams teamConnection `json:"teams"`
		} `json:"viewer"`
		Organization *struct {
			ID     string `json:"id"`
			Name   string `json:"name"`
			URLKey string `json:"urlKey"`
		} `json:"organization"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode viewer payload: %w", err)
	}
	if payload.Viewer == nil {
		return nil, &errors.NotFoundError{Resource: "viewer"}
	}

	viewer := &Viewer{
		ID:    payload.Viewer.ID,
		Name:  payload.Viewer.Name,
		Email: payload.Viewer.Email,
		Admin: payload.Viewer.Admin,
		Teams: projectTeams(payload.Viewer.Teams),
	}
	if payload.Organization != nil {
		viewer.Organization = &OrganizationSummary{
			ID:     payload.Organization.ID,
			Name:   payload.Organization.Name,
			URLKey: payload.Organization.URLKey,
		}
	}
	return viewer, nil
}

// Organization fetches the organization with its teams and active members.
func (c *Client) Organization(ctx context.Context) (*Organization, error) {
	resp, err := c.Execute(ctx, organizationQuery, nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Organization *struct {
			ID     string         `json:"id"`
			Name   string         `json:"name"`
			URLKey string         `json:"urlKey"`
			Teams  teamConnection `json:"teams"`
			Users  userConnection `json:"users"`
		} `json:"organization"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode organization payload: %w", err)
	}
	if payload.Organization == nil {
		return nil, &errors.NotFoundError{Resource: "organization"}
	}

	org := &Organization{
		ID:     payload.Organization.ID,
		Name:   payload.Organization.Name,
		URLKey: payload.Organization.URLKey,
		Teams:  projectTeams(payload.Organization.Teams),
		Users:  make([]User, 0, len(payload.Organization.Users.Nodes)),
	}
	for _, n := range payload.Organization.Users.Nodes {
		org.Users = append(org.Users, User{
			ID:     n.ID,
			Name:   n.Name,
			Email:  n.Email,
			Admin:  n.Admin,
			Active: n.Active,
		})
	}
	return org, nil
}

// resolveTeamID resolves a TeamRef to a team ID. A ref holding an ID is
// returned as is; a key is resolved with a lookup query. When the key does
// not match any team the raw value is returned unchanged and the search
// simply finds nothing.
func (c *Client) resolveTeamID(ctx context.Context, ref TeamRef) (string, error) {
	if ref.id != "" {
		return ref.id, nil
	}

	resp, err := c.Execute(ctx, teamByKeyQuery, map[string]any{"key": ref.key})
	if err != nil {
		return "", err
	}

	var payload struct {
		Team *struct {
			ID string `json:"id"`
		} `json:"team"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return "", fmt.Errorf("failed to decode team payload: %w", err)
	}
	if payload.Team == nil || payload.Team.ID == "" {
		return ref.key, nil
	}
	return payload.Team.ID, nil
}

// resolveStateID maps a workflow state name to its ID within a team. The
// match is case-insensitive and takes the first hit; ok is false when the
// team has no state of that name, in which case callers skip the state
// field rather than failing the mutation.
func (c *Client) resolveStateID(ctx context.Context, teamID, status string) (string, bool, error) {
	resp, err := c.Execute(ctx, teamStatesQuery, map[string]any{"teamId": teamID})
	if err != nil {
		return "", false, err
	}

	var payload struct {
		Team *struct {
			States struct {
				Nodes []stateNode `json:"nodes"`
			} `json:"states"`
		} `json:"team"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return "", false, fmt.Errorf("failed to decode team states payload: %w", err)
	}
	if payload.Team == nil {
		return "", false, nil
	}
	for _, state := range payload.Team.States.Nodes {
		if strings.EqualFold(state.Name, status) {
			return state.ID, true, nil
		}
	}
	return "", false, nil
}

// issueTeamID looks up the team an issue belongs to. An unknown issue or
// one without a team yields an empty ID.
func (c *Client) issueTeamID(ctx context.Context, issueID string) (string, error) {
	resp, err := c.Execute(ctx, issueTeamQuery, map[string]any{"id": issueID})
	if err != nil {
		return "", err
	}

	var payload struct {
		Issue *struct {
			Team *struct {
				ID string `json:"id"`
			} `json:"team"`
		} `json:"issue"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return "", fmt.Errorf("failed to decode issue team payload: %w", err)
	}
	if payload.Issue == nil || payload.Issue.Team == nil {
		return "", nil
	}
	return payload.Issue.Team.ID, nil
}

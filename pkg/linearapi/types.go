package linearapi

import (
	"strings"
	"time"
)

// Issue is the flattened view of a Linear issue returned by all issue
// operations. Nested connections from the API are collapsed into scalar
// fields and small summary records so tool output stays stable regardless
// of which query produced the issue.
type Issue struct {
	ID          string       `json:"id"`
	Identifier  string       `json:"identifier"`
	Title       string       `json:"title"`
	Description *string      `json:"description,omitempty"`
	Priority    *int         `json:"priority,omitempty"`
	State       *string      `json:"state,omitempty"`
	Assignee    *UserSummary `json:"assignee,omitempty"`
	Team        *TeamSummary `json:"team,omitempty"`
	Labels      []string     `json:"labels"`
	URL         string       `json:"url"`
	CreatedAt   *time.Time   `json:"created_at,omitempty"`
	UpdatedAt   *time.Time   `json:"updated_at,omitempty"`
	ArchivedAt  *time.Time   `json:"archived_at,omitempty"`
}

// UserSummary identifies the user an issue is assigned to.
type UserSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TeamSummary identifies the team an issue belongs to.
type TeamSummary struct {
	ID  string `json:"id"`
	Key string `json:"key"`
}

// Comment is the flattened view of an issue comment.
type Comment struct {
	ID        string     `json:"id"`
	Body      string     `json:"body"`
	User      *string    `json:"user,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Team describes a Linear team.
type Team struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Key  string `json:"key"`
}

// User describes a member of the organization.
type User struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Email  *string `json:"email,omitempty"`
	Admin  bool    `json:"admin"`
	Active bool    `json:"active"`
}

// OrganizationSummary identifies the organization the viewer belongs to.
type OrganizationSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	URLKey string `json:"url_key"`
}

// Viewer describes the authenticated user together with their team
// memberships and organization.
type Viewer struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Email        *string              `json:"email,omitempty"`
	Admin        bool                 `json:"admin"`
	Teams        []Team               `json:"teams"`
	Organization *OrganizationSummary `json:"organization,omitempty"`
}

// Organization describes the Linear organization with its teams and
// active members.
type Organization struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	URLKey string `json:"url_key"`
	Teams  []Team `json:"teams"`
	Users  []User `json:"users"`
}

// TeamRef identifies a team either by its opaque ID or by its short key
// (for example "ENG"). Callers state which form they hold instead of the
// client guessing from the string shape.
type TeamRef struct {
	id  string
	key string
}

// TeamByID returns a TeamRef holding an opaque team ID.
func TeamByID(id string) TeamRef {
	return TeamRef{id: id}
}

// TeamByKey returns a TeamRef holding a team short key.
func TeamByKey(key string) TeamRef {
	return TeamRef{key: key}
}

// ParseTeamRef classifies a raw string as an ID or a short key. Linear
// team IDs are UUIDs, so any value containing a separator is treated as
// an ID and everything else as a key.
func ParseTeamRef(s string) TeamRef {
	if strings.Contains(s, "-") {
		return TeamByID(s)
	}
	return TeamByKey(s)
}

// IsZero reports whether the ref holds neither an ID nor a key.
func (r TeamRef) IsZero() bool {
	return r.id == "" && r.key == ""
}

// String returns the raw value the ref was built from.
func (r TeamRef) String() string {
	if r.id != "" {
		return r.id
	}
	return r.key
}

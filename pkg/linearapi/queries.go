package linearapi

// issueFieldsFragment is the shared selection set for issue results. Every
// operation that returns issues selects the same fields so the flattened
// Issue record is identical no matter which query produced it.
const issueFieldsFragment = `fragment IssueFields on Issue {
  id
  identifier
  title
  description
  priority
  state {
    id
    name
  }
  assignee {
    id
    name
  }
  team {
    id
    key
  }
  labels {
    nodes {
      name
    }
  }
  url
  createdAt
  updatedAt
  archivedAt
}`

const createIssueMutation = issueFieldsFragment + `
mutation CreateIssue($input: IssueCreateInput!) {
  issueCreate(input: $input) {
    success
    issue {
      ...IssueFields
    }
  }
}`

const updateIssueMutation = issueFieldsFragment + `
mutation UpdateIssue($id: String!, $input: IssueUpdateInput!) {
  issueUpdate(id: $id, input: $input) {
    success
    issue {
      ...IssueFields
    }
  }
}`

const searchIssuesQuery = issueFieldsFragment + `
query SearchIssues($first: Int!, $filter: IssueFilter) {
  issues(first: $first, filter: $filter) {
    nodes {
      ...IssueFields
    }
  }
}`

const listIssuesQuery = issueFieldsFragment + `
query ListIssues($first: Int!) {
  issues(first: $first, orderBy: updatedAt) {
    nodes {
      ...IssueFields
    }
  }
}`

const viewerIssuesQuery = issueFieldsFragment + `
query ViewerIssues($first: Int!, $includeArchived: Boolean!) {
  viewer {
    assignedIssues(first: $first, includeArchived: $includeArchived) {
      nodes {
        ...IssueFields
      }
    }
  }
}`

const userIssuesQuery = issueFieldsFragment + `
query UserIssues($userId: String!, $first: Int!, $includeArchived: Boolean!) {
  user(id: $userId) {
    assignedIssues(first: $first, includeArchived: $includeArchived) {
      nodes {
        ...IssueFields
      }
    }
  }
}`

const getIssueQuery = issueFieldsFragment + `
query GetIssue($id: String!) {
  issue(id: $id) {
    ...IssueFields
  }
}`

const teamIssuesQuery = issueFieldsFragment + `
query TeamIssues($teamId: String!) {
  team(id: $teamId) {
    issues {
      nodes {
        ...IssueFields
      }
    }
  }
}`

const addCommentMutation = `
mutation AddComment($input: CommentCreateInput!) {
  commentCreate(input: $input) {
    success
    comment {
      id
      body
      user {
        id
        name
      }
      createdAt
    }
  }
}`

const issueTeamQuery = `
query IssueTeam($id: String!) {
  issue(id: $id) {
    team {
      id
    }
  }
}`

const teamByKeyQuery = `
query TeamByKey($key: String!) {
  team(key: $key) {
    id
  }
}`

const teamStatesQuery = `
query TeamStates($teamId: String!) {
  team(id: $teamId) {
    states {
      nodes {
        id
        name
      }
    }
  }
}`

const viewerQuery = `
query Viewer {
  viewer {
    id
    name
    email
    admin
    teams {
      nodes {
        id
        name
        key
      }
    }
  }
  organization {
    id
    name
    urlKey
  }
}`

const organizationQuery = `
query Organization {
  organization {
    id
    name
    urlKey
    teams {
      nodes {
        id
        name
        key
      }
    }
    users {
      nodes {
        id
        name
        email
        admin
        active
      }
    }
  }
}`

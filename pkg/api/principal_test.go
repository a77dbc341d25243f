package api

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const knownID = "3fa85f64-5717-4562-b3fc-2c963f66afa6"

// An id-shaped entry is fetched directly, a name becomes a starts-with
// lookup, and results come back in input order.
func TestPrincipalDisambiguation(t *testing.T) {
	rec := newRecorder(t)
	rec.respond("GET", "/servicePrincipals/"+knownID, 200,
		`{"id":"`+knownID+`","displayName":"By Id","servicePrincipalType":"Application"}`)
	rec.respond("GET", "/servicePrincipals", 200,
		jsonList(map[string]string{"id": "sp-2", "displayName": "Contoso App", "servicePrincipalType": "Application"}))

	got, err := rec.client().GetServicePrincipals(PrincipalQuery{IDs: []string{knownID, "Contoso"}})
	require.NoError(t, err)

	require.Equal(t, []string{
		"GET /servicePrincipals/" + knownID,
		"GET /servicePrincipals",
	}, rec.calls())

	require.Len(t, got, 2)
	require.Equal(t, "By Id", got[0].DisplayName)
	require.Equal(t, "Contoso App", got[1].DisplayName)

	require.Contains(t, rec.requests[1].Query, "startswith(tolower(displayName),'contoso')")
}

// A missing id is a warning, not a failure; the rest of the batch runs.
func TestPrincipalNotFoundSkipped(t *testing.T) {
	rec := newRecorder(t)
	rec.respond("GET", "/servicePrincipals", 200,
		jsonList(map[string]string{"id": "sp-2", "displayName": "Contoso App"}))

	got, err := rec.client().GetServicePrincipals(PrincipalQuery{IDs: []string{knownID, "Contoso"}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Contoso App", got[0].DisplayName)
}

func TestPrincipalQueryValidate(t *testing.T) {
	err := PrincipalQuery{IDs: []string{"x"}, ManagedIdentity: true}.Validate()
	require.Error(t, err)

	err = PrincipalQuery{Application: true, FirstParty: true}.Validate()
	require.Error(t, err)

	err = PrincipalQuery{ExpandAppRoles: true, ScopeFilter: "User."}.Validate()
	require.Error(t, err)

	require.NoError(t, PrincipalQuery{ManagedIdentity: true, Filter: "accountEnabled eq true"}.Validate())
}

func TestPrincipalServerFilter(t *testing.T) {
	q := PrincipalQuery{ManagedIdentity: true}
	require.Equal(t, "servicePrincipalType eq 'ManagedIdentity'", q.serverFilter())

	q = PrincipalQuery{Application: true, Filter: "accountEnabled eq true"}
	require.Equal(t, "servicePrincipalType eq 'Application' and accountEnabled eq true", q.serverFilter())

	q = PrincipalQuery{FirstParty: true}
	f := q.serverFilter()
	require.Contains(t, f, "appId in (")
	require.Contains(t, f, "'00000003-0000-0000-c000-000000000000'")
}

// First-party queries use an advanced filter and must carry the
// eventual-consistency header plus a count request.
func TestPrincipalConsistencyHeader(t *testing.T) {
	rec := newRecorder(t)
	rec.respond("GET", "/servicePrincipals", 200, jsonList())

	_, err := rec.client().GetServicePrincipals(PrincipalQuery{FirstParty: true})
	require.NoError(t, err)

	req := rec.requests[0]
	require.Equal(t, "eventual", req.Header.Get("ConsistencyLevel"))
	require.Contains(t, req.Query, "$count=true")
}

func TestPrincipalRoleExpansion(t *testing.T) {
	rec := newRecorder(t)
	rec.respond("GET", "/servicePrincipals", 200, jsonList(map[string]interface{}{
		"id":          "sp-1",
		"displayName": "Graph",
		"appRoles": []map[string]interface{}{
			{"id": "r-1", "value": "User.Read.All", "displayName": "Read users"},
			{"id": "r-2", "value": "Mail.Send", "displayName": "Send mail"},
		},
		"oauth2PermissionScopes": []map[string]interface{}{
			{"id": "s-1", "value": "User.Read"},
		},
	}))

	got, err := rec.client().GetServicePrincipals(PrincipalQuery{
		Application:   true,
		AppRoleFilter: "user.",
	})
	require.NoError(t, err)
	require.Len(t, got, 1)

	// the role filter is applied client-side, never sent to the server
	require.NotContains(t, rec.requests[0].Query, "user.")

	sp := got[0]
	require.Len(t, sp.AppRoles, 1)
	require.Equal(t, "User.Read.All", sp.AppRoles[0].Value)
	require.Nil(t, sp.OAuth2PermissionScopes)
}

func TestFirstPartyAppID(t *testing.T) {
	id, ok := FirstPartyAppID("Microsoft Graph")
	require.True(t, ok)
	require.Equal(t, "00000003-0000-0000-c000-000000000000", id)

	_, ok = FirstPartyAppID("Unknown App")
	require.False(t, ok)
}

package api

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	msgraph "github.com/jhoneill/MSGraphAPI"
	"github.com/jhoneill/MSGraphAPI/internal/logging"
)

// firstPartyApps is the fixed allow-list of well-known first-party
// O365 application IDs, keyed by a friendly name. Built once at module
// initialization, never recomputed per call.
var firstPartyApps = map[string]string{
	"Microsoft Graph":       "00000003-0000-0000-c000-000000000000",
	"Exchange Online":       "00000002-0000-0ff1-ce00-000000000000",
	"SharePoint Online":     "00000003-0000-0ff1-ce00-000000000000",
	"Skype for Business":    "00000004-0000-0ff1-ce00-000000000000",
	"Microsoft Teams":       "cc15fd57-2c6c-4117-a88c-83b1d56b4bbe",
	"Office 365 Management": "c5393580-f805-4401-95e8-94b7a6ef2fc2",
	"Microsoft To-Do":       "c830ddb0-63e6-4f22-bd71-2ad47198a23e",
}

// PrincipalQuery selects service principals. The high-level selectors
// (IDs, ManagedIdentity, Application, FirstParty) are mutually
// exclusive; Filter is ANDed with whatever the selector produces.
//
// AppRoleFilter/ExpandAppRoles and ScopeFilter/ExpandScopes are applied
// client-side to the fetched principals' embedded collections, never
// sent to the server, and do not combine with each other.
type PrincipalQuery struct {
	// IDs holds object IDs or display-name prefixes; each entry is
	// disambiguated independently by its shape.
	IDs []string
	// ManagedIdentity selects principals of type ManagedIdentity.
	ManagedIdentity bool
	// Application selects principals of type Application.
	Application bool
	// FirstParty selects the fixed allow-list of well-known first-party
	// O365 application IDs.
	FirstParty bool
	// Filter is a caller-supplied OData filter, ANDed with the rest.
	Filter string

	// ExpandAppRoles keeps the app roles on the result; AppRoleFilter
	// additionally narrows them to values starting with the prefix.
	ExpandAppRoles bool
	AppRoleFilter  string
	// ExpandScopes keeps the OAuth2 permission scopes on the result;
	// ScopeFilter narrows them the same way.
	ExpandScopes bool
	ScopeFilter  string
}

// Validate checks the mutual-exclusion rules.
func (q PrincipalQuery) Validate() error {
	selectors := 0
	if len(q.IDs) != 0 {
		selectors++
	}
	if q.ManagedIdentity {
		selectors++
	}
	if q.Application {
		selectors++
	}
	if q.FirstParty {
		selectors++
	}
	if selectors > 1 {
		return msgraph.NewValidationError("choose one of: ids, managed-identity, application, first-party")
	}

	if (q.ExpandAppRoles || q.AppRoleFilter != "") && (q.ExpandScopes || q.ScopeFilter != "") {
		return msgraph.NewValidationError("app-role and scope expansion do not combine")
	}
	return nil
}

// serverFilter builds the combined $filter predicate for the selector,
// ANDed with the caller-supplied filter. Empty when only direct
// lookups are issued.
func (q PrincipalQuery) serverFilter() string {
	parts := make([]string, 0, 2)
	switch {
	case q.ManagedIdentity:
		parts = append(parts, "servicePrincipalType eq 'ManagedIdentity'")
	case q.Application:
		parts = append(parts, "servicePrincipalType eq 'Application'")
	case q.FirstParty:
		ids := make([]string, 0, len(firstPartyApps))
		for _, id := range firstPartyApps {
			ids = append(ids, "'"+id+"'")
		}
		sort.Strings(ids)
		parts = append(parts, fmt.Sprintf("appId in (%s)", strings.Join(ids, ",")))
	}
	if q.Filter != "" {
		parts = append(parts, q.Filter)
	}
	return strings.Join(parts, " and ")
}

// advanced tells if the filter needs the eventual-consistency header.
func (q PrincipalQuery) advanced() bool {
	return q.FirstParty
}

// GetServicePrincipals runs the query and returns matching principals.
//
// Entries of IDs are processed one at a time, in input order: an entry
// shaped like an object ID is fetched directly, anything else becomes a
// case-insensitive starts-with lookup on the display name. A not-found
// entry is reported as a warning and skipped; other failures abort.
func (c *Client) GetServicePrincipals(q PrincipalQuery) ([]*msgraph.ServicePrincipal, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	var out []*msgraph.ServicePrincipal
	var err error
	if len(q.IDs) != 0 {
		out, err = c.principalsByID(q)
	} else {
		out, err = c.listPrincipals(q)
	}
	if err != nil {
		return nil, err
	}

	for _, sp := range out {
		q.trimExpansions(sp)
	}
	return out, nil
}

func (c *Client) principalsByID(q PrincipalQuery) ([]*msgraph.ServicePrincipal, error) {
	out := make([]*msgraph.ServicePrincipal, 0, len(q.IDs))
	for _, id := range q.IDs {
		if _, err := uuid.Parse(id); err == nil {
			var sp msgraph.ServicePrincipal
			err := c.do("GET", epServicePrincipals+"/"+id, "", nil, &sp)
			if err != nil {
				if msgraph.IsNotFound(err) {
					logging.Warning("no service principal with id %q", id)
					continue
				}
				return nil, err
			}
			out = append(out, &sp)
			continue
		}

		// not id-shaped, treat as a display-name prefix
		filter := msgraph.PrefixFilter("displayName", id)
		if q.Filter != "" {
			filter = filter + " and " + q.Filter
		}
		matches, err := c.fetchPrincipals("$filter="+filter, false)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			logging.Warning("no service principal matching %q", id)
			continue
		}
		out = append(out, matches...)
	}
	return out, nil
}

func (c *Client) listPrincipals(q PrincipalQuery) ([]*msgraph.ServicePrincipal, error) {
	query := ""
	if f := q.serverFilter(); f != "" {
		query = "$filter=" + f
	}
	if q.advanced() {
		// advanced filters require a count request as well
		query = msgraph.JoinQuery(query, "$count=true")
	}
	return c.fetchPrincipals(query, q.advanced())
}

func (c *Client) fetchPrincipals(query string, advanced bool) ([]*msgraph.ServicePrincipal, error) {
	opts := []reqOption{}
	if advanced {
		opts = append(opts, withConsistency())
	}

	out := make([]*msgraph.ServicePrincipal, 0)
	err := c.list(epServicePrincipals, query, func(raw json.RawMessage) error {
		var batch []*msgraph.ServicePrincipal
		if err := json.Unmarshal(raw, &batch); err != nil {
			return err
		}
		out = append(out, batch...)
		return nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	logging.Debug("List service principals returned %d items", len(out))
	return out, nil
}

// trimExpansions applies the client-side role/scope post-filters.
func (q PrincipalQuery) trimExpansions(sp *msgraph.ServicePrincipal) {
	switch {
	case q.ExpandAppRoles || q.AppRoleFilter != "":
		sp.OAuth2PermissionScopes = nil
		if q.AppRoleFilter != "" {
			kept := sp.AppRoles[:0]
			for _, r := range sp.AppRoles {
				if hasPrefixFold(r.Value, q.AppRoleFilter) || hasPrefixFold(r.DisplayName, q.AppRoleFilter) {
					kept = append(kept, r)
				}
			}
			sp.AppRoles = kept
		}
	case q.ExpandScopes || q.ScopeFilter != "":
		sp.AppRoles = nil
		if q.ScopeFilter != "" {
			kept := sp.OAuth2PermissionScopes[:0]
			for _, s := range sp.OAuth2PermissionScopes {
				if hasPrefixFold(s.Value, q.ScopeFilter) || hasPrefixFold(s.AdminConsentDisplayName, q.ScopeFilter) {
					kept = append(kept, s)
				}
			}
			sp.OAuth2PermissionScopes = kept
		}
	}
}

// hasPrefixFold matches a prefix ignoring case, with the same trailing
// wildcard tolerance as the server-side filters.
func hasPrefixFold(s, prefix string) bool {
	prefix = strings.ToLower(strings.TrimSuffix(prefix, "*"))
	return strings.HasPrefix(strings.ToLower(s), prefix)
}

// FirstPartyAppID looks up a well-known application ID by its friendly
// name.
func FirstPartyAppID(name string) (string, bool) {
	id, ok := firstPartyApps[name]
	return id, ok
}


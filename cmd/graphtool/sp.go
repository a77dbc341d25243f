package main

import (
	"fmt"

	"github.com/jhoneill/MSGraphAPI/pkg/api"
)

type principalFlags struct {
	managed    bool
	apps       bool
	firstParty bool
	filter     string
	roles      bool
	role       string
	scopes     bool
	scope      string
}

func doSp(s settings, ids []string, flags principalFlags) error {
	client := setupClient(s)

	query := api.PrincipalQuery{
		IDs:             ids,
		ManagedIdentity: flags.managed,
		Application:     flags.apps,
		FirstParty:      flags.firstParty,
		Filter:          flags.filter,
		ExpandAppRoles:  flags.roles,
		AppRoleFilter:   flags.role,
		ExpandScopes:    flags.scopes,
		ScopeFilter:     flags.scope,
	}

	principals, err := client.GetServicePrincipals(query)
	if err != nil {
		return err
	}

	if len(principals) == 0 {
		fmt.Println("Found no matching service principals.")
		return nil
	}

	expanded := flags.roles || flags.role != "" || flags.scopes || flags.scope != ""
	for _, sp := range principals {
		fmt.Printf("%v  %-16v %v\n", sp.ID, sp.ServicePrincipalType, sp.DisplayName)
		if !expanded {
			continue
		}
		for _, r := range sp.AppRoles {
			fmt.Printf("    role:  %-40v %v\n", r.Value, r.DisplayName)
		}
		for _, sc := range sp.OAuth2PermissionScopes {
			fmt.Printf("    scope: %-40v %v\n", sc.Value, sc.AdminConsentDisplayName)
		}
	}
	return nil
}

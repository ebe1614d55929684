package governance

import "strings"

// Role names as issued by the authorization collaborator. Matching is
// case-insensitive.
const (
	RoleAdmin              = "admin"
	RoleDeliveryManager    = "delivery_manager"
	RoleBusinessAnalyst    = "business_analyst"
	RoleProjectManager     = "project_manager"
	RoleTechnicalArchitect = "technical_architect"
	RoleFinanceReviewer    = "finance_reviewer"
	RoleViewer             = "viewer"
)

func hasAny(roles []string, allowed ...string) bool {
	for _, r := range roles {
		lower := strings.ToLower(r)
		for _, a := range allowed {
			if lower == a {
				return true
			}
		}
	}
	return false
}

func CanCreateProject(roles []string) bool {
	return hasAny(roles, RoleAdmin, RoleDeliveryManager, RoleBusinessAnalyst, RoleFinanceReviewer)
}

func CanDeleteProject(roles []string) bool {
	return hasAny(roles, RoleAdmin, RoleDeliveryManager, RoleBusinessAnalyst, RoleFinanceReviewer)
}

func CanEditTeam(roles []string) bool {
	return hasAny(roles, RoleAdmin, RoleDeliveryManager)
}

func CanEditFeatures(roles []string) bool {
	return hasAny(roles, RoleAdmin, RoleDeliveryManager, RoleBusinessAnalyst)
}

// CanModifyEffort is the senior technical authority required for effort
// changes beyond the override threshold.
func CanModifyEffort(roles []string) bool {
	return hasAny(roles, RoleAdmin, RoleTechnicalArchitect)
}

// CanLockVersion is the narrower finance authority required to mark a
// version won.
func CanLockVersion(roles []string) bool {
	return hasAny(roles, RoleAdmin, RoleFinanceReviewer)
}

// CanUnlockVersion is the highest administrative authority.
func CanUnlockVersion(roles []string) bool {
	return hasAny(roles, RoleAdmin)
}

func CanManageRates(roles []string) bool {
	return hasAny(roles, RoleAdmin, RoleFinanceReviewer)
}

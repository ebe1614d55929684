// Package service holds the business logic between the HTTP handlers and
// the persistence layer. Services authorize through the governance guard,
// compute through the calculation engine and persist through repositories;
// they hold no mutable state of their own.
package service

import "github.com/pricecast/backend/internal/model"

// newAudit builds the audit entry governed writes carry into their
// transactions.
func newAudit(projectID, versionID, userID int64, action, entityType string) *model.AuditLog {
	return &model.AuditLog{
		ProjectID:  &projectID,
		VersionID:  &versionID,
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
	}
}

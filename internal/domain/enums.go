package domain

// UserRole controls access to mutating endpoints.
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleOperator UserRole = "operator"
	RoleViewer   UserRole = "viewer"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleOperator, RoleViewer:
		return true
	}
	return false
}

// ParsingStatus tracks a waybill through the upload pipeline.
type ParsingStatus string

const (
	StatusPending    ParsingStatus = "pending"
	StatusProcessing ParsingStatus = "processing"
	StatusCompleted  ParsingStatus = "completed"
	StatusRejected   ParsingStatus = "rejected"
	StatusFailed     ParsingStatus = "failed"
)

// VehicleStatus marks whether a registered unit is available for hauling.
type VehicleStatus string

const (
	VehicleActive   VehicleStatus = "active"
	VehicleInactive VehicleStatus = "inactive"
)

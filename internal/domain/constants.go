package domain

const (
	RoleAdmin    = "ADMIN"
	RoleEmployee = "EMPLOYEE"
)

const (
	ConflictStatusPending  = "PENDING"
	ConflictStatusResolved = "RESOLVED"
	ConflictStatusRejected = "REJECTED"
)

const (
	ResolutionClient = "CLIENT"
	ResolutionServer = "SERVER"
	ResolutionManual = "MANUAL"
)

// Task types a geofence can be tagged with.
const (
	TaskTypeSite    = "SITE"
	TaskTypeOffice  = "OFFICE"
	TaskTypeClient  = "CLIENT_VISIT"
	TaskTypeTransit = "TRANSIT"
	TaskTypeBreak   = "BREAK"
)

// MaxBatchSize caps one upload; it bounds the IN clause of the idempotency
// check and the per-batch worst-case latency.
const MaxBatchSize = 100

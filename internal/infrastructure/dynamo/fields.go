package dynamo

// DynamoDB attribute and index names used in key, condition and update
// expressions across all repos.
const (
	fieldEmail     = "email"
	fieldRole      = "role"
	fieldAdmin     = "admin"
	fieldBarangay  = "barangay"
	fieldCode      = "code"
	fieldConsumed  = "consumed"
	fieldSessionID = "session_id"
	fieldTTL       = "ttl"

	roleIndex = "role-index"
)

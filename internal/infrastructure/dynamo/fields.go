package dynamo

// DynamoDB attribute names used in update and condition expressions across
// all repos.
const (
	fieldIsUsed    = "is_used"
	fieldIsActive  = "is_active"
	fieldUpdatedAt = "updated_at"
)

package dynamo

// DynamoDB attribute names used in key conditions and update expressions.
const (
	fieldUserID       = "user_id"
	fieldEmail        = "email"
	fieldPasswordHash = "password_hash"
	fieldUpdatedAt    = "updated_at"

	indexEmail = "email-index"
)

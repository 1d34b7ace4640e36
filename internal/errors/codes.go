package errors

// Error code constants returned in the "error" field of failure responses.
// Format: CATEGORY_SPECIFIC_DETAIL. The frontend maps these to messages.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"       // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"
	AuthResetTokenInvalid  = "AUTH_RESET_TOKEN_INVALID" // expired or unknown reset token

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden = "AUTHZ_FORBIDDEN"  // insufficient rights
	AuthzAdminOnly = "AUTHZ_ADMIN_ONLY" // admin gate
	AuthzOwnerOnly = "AUTHZ_OWNER_ONLY" // resource belongs to someone else

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound = "RESOURCE_NOT_FOUND"

	// ==================== Users (USER_) ====================
	UserNotFound       = "USER_NOT_FOUND"
	UserSelfDeletion   = "USER_SELF_DELETION" // admin may not delete own account
	UserEmailExists    = "USER_EMAIL_EXISTS"
	UserNothingToPatch = "USER_NOTHING_TO_PATCH"

	// ==================== Locations (LOCATION_) ====================
	LocationNotFound = "LOCATION_NOT_FOUND"

	// ==================== Reviews (REVIEW_) ====================
	ReviewNotFound      = "REVIEW_NOT_FOUND"
	ReviewAlreadyExists = "REVIEW_ALREADY_EXISTS" // one review per (location, user)

	// ==================== Uploads (UPLOAD_) ====================
	UploadFileNotFound = "UPLOAD_FILE_NOT_FOUND"
	UploadFailed       = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError = "INTERNAL_SERVER_ERROR"
)

package code

// HTTP status codes used by the error maps.
const (
	StatusOK                  = 200
	StatusCreated             = 201
	StatusBadRequest          = 400
	StatusUnauthorized        = 401
	StatusForbidden           = 403
	StatusNotFound            = 404
	StatusConflict            = 409
	StatusTooManyRequests     = 429
	StatusInternalServerError = 500
)

// Common error codes (100xxx).
const (
	// ErrSuccess - 200
	ErrSuccess int = iota + 100000
	// ErrUnknown - 500
	ErrUnknown
	// ErrBind - 400: request body or query could not be bound
	ErrBind
	// ErrValidation - 400
	ErrValidation
	// ErrTokenInvalid - 401: missing, malformed or expired bearer token
	ErrTokenInvalid
	// ErrTooManyRequests - 429
	ErrTooManyRequests
	// ErrForbidden - 403
	ErrForbidden
)

// User and auth error codes (101xxx).
const (
	// ErrUserNotFound - 401: the token subject no longer exists
	ErrUserNotFound int = iota + 101000
	// ErrUserAlreadyExist - 409
	ErrUserAlreadyExist
	// ErrInvalidCredentials - 401
	ErrInvalidCredentials
)

// Property error codes (102xxx).
const (
	// ErrPropertyNotFound - 404
	ErrPropertyNotFound int = iota + 102000
)

// Tenant error codes (103xxx).
const (
	// ErrTenantNotFound - 404
	ErrTenantNotFound int = iota + 103000
)

// Lease error codes (104xxx).
const (
	// ErrLeaseNotFound - 404
	ErrLeaseNotFound int = iota + 104000
	// ErrLeaseActiveExists - 400: the property already has an active lease
	ErrLeaseActiveExists
	// ErrDocumentNotFound - 404
	ErrDocumentNotFound
)

// Payment error codes (105xxx).
const (
	// ErrPaymentNotFound - 404
	ErrPaymentNotFound int = iota + 105000
)

// Database and storage error codes (106xxx).
const (
	// ErrDatabase - 500
	ErrDatabase int = iota + 106000
	// ErrRecordNotFound - 404
	ErrRecordNotFound
	// ErrStorage - 500: document backend failure
	ErrStorage
	// ErrMigrationFailed - 500
	ErrMigrationFailed
	// ErrConnectionFailed - 500
	ErrConnectionFailed
)

package code

var codeMessageMap = map[int]string{
	// common
	ErrSuccess:         "Success",
	ErrUnknown:         "Internal server error",
	ErrBind:            "Invalid request parameters",
	ErrValidation:      "Validation failed",
	ErrTokenInvalid:    "Unauthorized",
	ErrTooManyRequests: "Too many requests, please try again later",
	ErrForbidden:       "Forbidden",

	// user and auth
	ErrUserNotFound:       "User not found",
	ErrUserAlreadyExist:   "User with this email already exists",
	ErrInvalidCredentials: "Invalid credentials",

	// domain
	ErrPropertyNotFound:  "Property not found",
	ErrTenantNotFound:    "Tenant not found",
	ErrLeaseNotFound:     "Lease not found",
	ErrLeaseActiveExists: "Property already has an active lease",
	ErrDocumentNotFound:  "Document not found",
	ErrPaymentNotFound:   "Payment not found",

	// database and storage
	ErrDatabase:         "Database error",
	ErrRecordNotFound:   "Record not found",
	ErrStorage:          "Storage error",
	ErrMigrationFailed:  "Migration failed",
	ErrConnectionFailed: "Connection failed",
}

var codeStatusMap = map[int]int{
	// common
	ErrSuccess:         StatusOK,
	ErrUnknown:         StatusInternalServerError,
	ErrBind:            StatusBadRequest,
	ErrValidation:      StatusBadRequest,
	ErrTokenInvalid:    StatusUnauthorized,
	ErrTooManyRequests: StatusTooManyRequests,
	ErrForbidden:       StatusForbidden,

	// user and auth
	ErrUserNotFound:       StatusUnauthorized,
	ErrUserAlreadyExist:   StatusConflict,
	ErrInvalidCredentials: StatusUnauthorized,

	// domain
	ErrPropertyNotFound:  StatusNotFound,
	ErrTenantNotFound:    StatusNotFound,
	ErrLeaseNotFound:     StatusNotFound,
	ErrLeaseActiveExists: StatusBadRequest,
	ErrDocumentNotFound:  StatusNotFound,
	ErrPaymentNotFound:   StatusNotFound,

	// database and storage
	ErrDatabase:         StatusInternalServerError,
	ErrRecordNotFound:   StatusNotFound,
	ErrStorage:          StatusInternalServerError,
	ErrMigrationFailed:  StatusInternalServerError,
	ErrConnectionFailed: StatusInternalServerError,
}

// GetMessage returns the default message of an error code
func GetMessage(code int) string {
	if msg, ok := codeMessageMap[code]; ok {
		return msg
	}
	return "Unknown error"
}

// GetStatus returns the HTTP status of an error code
func GetStatus(code int) int {
	if status, ok := codeStatusMap[code]; ok {
		return status
	}
	return StatusInternalServerError
}

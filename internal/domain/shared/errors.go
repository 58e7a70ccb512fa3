package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	// ErrNotFound covers both truly absent records and tenant mismatches.
	// The two cases are deliberately indistinguishable so record existence
	// never leaks across companies.
	ErrNotFound = NewDomainError("NOT_FOUND", "Resource not found")

	ErrAlreadyExists      = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrDuplicateEmail     = NewDomainError("DUPLICATE_EMAIL", "Email already registered")
	ErrInvalidInput       = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized       = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden          = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidCredentials = NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	ErrAccountInactive    = NewDomainError("ACCOUNT_INACTIVE", "Account is inactive")
	ErrRateLimited        = NewDomainError("RATE_LIMITED", "Too many requests. Please try again later.")
	ErrInternal           = NewDomainError("INTERNAL_ERROR", "An unexpected error occurred")
)

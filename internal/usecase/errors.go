package usecase

import "fmt"

const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeSlotOverlap      = "SLOT_OVERLAP"
	CodeNoCapacity       = "NO_CAPACITY_AVAILABLE"
	CodeResourceConflict = "RESOURCE_NOT_AVAILABLE"
	CodeInvalidState     = "INVALID_BOOKING_STATE"
	CodeSlotHasBookings  = "SLOT_HAS_BOOKINGS"
	CodeLastResource     = "LAST_ENABLED_RESOURCE"
	CodePaymentNotFound  = "PAYMENT_NOT_FOUND"
	CodeExternalService  = "EXTERNAL_SERVICE_ERROR"
)

// BusinessRuleError is returned when a domain rule rejects an operation.
// The handler layer maps Code to an HTTP status and serializes Details as-is.
type BusinessRuleError struct {
	Code    string
	Message string
	Details map[string]interface{}
}

func (e *BusinessRuleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newBusinessError(code, message string, details map[string]interface{}) *BusinessRuleError {
	return &BusinessRuleError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

func notFoundError(what string) *BusinessRuleError {
	return newBusinessError(CodeNotFound, fmt.Sprintf("%s not found", what), nil)
}

func validationError(message string) *BusinessRuleError {
	return newBusinessError(CodeValidation, message, nil)
}

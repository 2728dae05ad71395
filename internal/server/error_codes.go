package server

const (
	// Validation (1xxx)
	ErrCodeInvalidArgument = 1000
	ErrCodeInvalidJSON     = 1001
	ErrCodeRequestTooLarge = 1002
	ErrCodeInvalidID       = 1003
	ErrCodeMissingRequired = 1004

	// Domain state (2xxx)
	ErrCodeEntryNotFound = 2001
	ErrCodeBlobNotFound  = 2002

	// Internal/system (4xxx)
	ErrCodeInternal     = 4001
	ErrCodeStoreFailure = 4002
	ErrCodeBlobFailure  = 4003
)

func defaultErrorCodeByStatus(status int) int {
	switch status {
	case 400:
		return ErrCodeInvalidArgument
	case 404:
		return ErrCodeEntryNotFound
	case 500:
		return ErrCodeInternal
	default:
		return 0
	}
}

package errors

// Constructors for the error categories this module's packages raise.
// Named after the failure, not the caller: one constructor per ERR
// code, except ERR_ERROR and ERR_CONTEXT_CANCELED, which have none.

func NewInvalidArgumentError(message string, params ...interface{}) *Error {
	return New(ERR_INVALID_ARGUMENT, message, params...)
}

func NewNotFoundError(message string, params ...interface{}) *Error {
	return New(ERR_NOT_FOUND, message, params...)
}

func NewProcessingError(message string, params ...interface{}) *Error {
	return New(ERR_PROCESSING, message, params...)
}

func NewStorageError(message string, params ...interface{}) *Error {
	return New(ERR_STORAGE, message, params...)
}

func NewThresholdExceededError(message string, params ...interface{}) *Error {
	return New(ERR_THRESHOLD_EXCEEDED, message, params...)
}

func NewConfigurationError(message string, params ...interface{}) *Error {
	return New(ERR_CONFIGURATION, message, params...)
}

func NewStateInitializationError(message string, params ...interface{}) *Error {
	return New(ERR_STATE_INITIALIZATION, message, params...)
}

func NewBlockInvalidError(message string, params ...interface{}) *Error {
	return New(ERR_BLOCK_INVALID, message, params...)
}

func NewBlockNotFoundError(message string, params ...interface{}) *Error {
	return New(ERR_BLOCK_NOT_FOUND, message, params...)
}

func NewBlockExistsError(message string, params ...interface{}) *Error {
	return New(ERR_BLOCK_EXISTS, message, params...)
}

func NewTxInvalidError(message string, params ...interface{}) *Error {
	return New(ERR_TX_INVALID, message, params...)
}

func NewTxNotFoundError(message string, params ...interface{}) *Error {
	return New(ERR_TX_NOT_FOUND, message, params...)
}

func NewTxAlreadyExistsError(message string, params ...interface{}) *Error {
	return New(ERR_TX_ALREADY_EXISTS, message, params...)
}

func NewTxLockTimeError(message string, params ...interface{}) *Error {
	return New(ERR_TX_LOCK_TIME, message, params...)
}

func NewUnknownError(message string, params ...interface{}) *Error {
	return New(ERR_UNKNOWN, message, params...)
}

// Sentinel errors for errors.Is comparisons against a bare code.
var (
	ErrNotFound = &Error{Code: ERR_NOT_FOUND, Message: "not found"}
	ErrExists   = &Error{Code: ERR_BLOCK_EXISTS, Message: "already exists"}
)

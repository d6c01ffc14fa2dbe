package errs

import "errors"

// ValidationError 输入校验失败，Message 为可直接展示给用户的稳定文案
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func Validation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// AsValidation 判断错误链中是否包含 ValidationError
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

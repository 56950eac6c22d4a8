package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode mã lỗi của hệ thống phân tích địa chỉ
type ErrorCode string

const (
	ErrEmptyInput      ErrorCode = "EMPTY_INPUT"      // 400
	ErrInvalidRequest  ErrorCode = "INVALID_REQUEST"  // 400
	ErrNotFound        ErrorCode = "NOT_FOUND"        // 404
	ErrConfiguration   ErrorCode = "CONFIGURATION"    // 500
	ErrExternalService ErrorCode = "EXTERNAL_SERVICE" // 502
	ErrInternal        ErrorCode = "INTERNAL"         // 500
)

// AddressError lỗi có cấu trúc: mã, HTTP status, thông điệp và chi tiết.
type AddressError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
	Err     error
}

// Error implements the error interface.
func (e *AddressError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AddressError) Unwrap() error {
	return e.Err
}

// NewEmptyInput lỗi khi địa chỉ rỗng sau khi chuẩn hóa.
func NewEmptyInput() *AddressError {
	return &AddressError{
		Code:    ErrEmptyInput,
		Status:  http.StatusBadRequest,
		Message: "address is empty after normalization",
	}
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *AddressError {
	return &AddressError{
		Code:    ErrInvalidRequest,
		Status:  http.StatusBadRequest,
		Message: msg,
	}
}

// NewNotFound creates a 404 error.
func NewNotFound(kind, identifier string) *AddressError {
	return &AddressError{
		Code:    ErrNotFound,
		Status:  http.StatusNotFound,
		Message: fmt.Sprintf("%s not found: %s", kind, identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewConfiguration lỗi cấu hình: thiếu hoặc rỗng key bắt buộc.
func NewConfiguration(key, msg string) *AddressError {
	return &AddressError{
		Code:    ErrConfiguration,
		Status:  http.StatusInternalServerError,
		Message: fmt.Sprintf("%s: %s", key, msg),
		Details: map[string]any{"key": key},
	}
}

// NewExternalService lỗi do nhà cung cấp trả về mã lỗi khác 0.
func NewExternalService(providerCode, providerMessage string) *AddressError {
	return &AddressError{
		Code:    ErrExternalService,
		Status:  http.StatusBadGateway,
		Message: fmt.Sprintf("juso api error %s: %s", providerCode, providerMessage),
		Details: map[string]any{
			"provider_code":    providerCode,
			"provider_message": providerMessage,
		},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *AddressError {
	return &AddressError{
		Code:    ErrInternal,
		Status:  http.StatusInternalServerError,
		Message: "internal error",
		Err:     err,
	}
}

// Is kiểm tra err (kể cả khi đã wrap) có phải AddressError với code cho trước.
func Is(err error, code ErrorCode) bool {
	var aErr *AddressError
	if stderrors.As(err, &aErr) {
		return aErr.Code == code
	}
	return false
}

// As trả về AddressError nằm trong chuỗi wrap của err, nếu có.
func As(err error) (*AddressError, bool) {
	var aErr *AddressError
	if stderrors.As(err, &aErr) {
		return aErr, true
	}
	return nil, false
}

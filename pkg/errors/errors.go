package errors

import (
	"errors"
	"fmt"
	"net/http"

	"rehoming/domain/person"
	"rehoming/domain/shared"
)

// ErrorCode 错误码
type ErrorCode string

const (
	// 通用错误码
	CodeInternal       ErrorCode = "INTERNAL_ERROR"
	CodeBadRequest     ErrorCode = "BAD_REQUEST"
	CodeNotFound       ErrorCode = "NOT_FOUND"
	CodeConflict       ErrorCode = "CONFLICT"
	CodeTooManyRequest ErrorCode = "TOO_MANY_REQUESTS"
	CodeValidation     ErrorCode = "VALIDATION_ERROR"

	// 业务错误码
	CodePersonNotFound            ErrorCode = "PERSON_NOT_FOUND"
	CodeCatNotFound               ErrorCode = "CAT_NOT_FOUND"
	CodeAdvertisementNotFound     ErrorCode = "ADVERTISEMENT_NOT_FOUND"
	CodeInvalidAdvertisementState ErrorCode = "INVALID_ADVERTISEMENT_STATE"
	CodeInvalidOperation          ErrorCode = "INVALID_OPERATION"
	CodeConcurrentModification    ErrorCode = "CONCURRENT_MODIFICATION"
	CodeDuplicateContact          ErrorCode = "DUPLICATE_CONTACT"
)

// AppError 应用错误
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatusCode 返回对应的HTTP状态码
// 状态机和结构性规则的违反都按错误请求处理
func (e *AppError) HTTPStatusCode() int {
	switch e.Code {
	case CodeBadRequest, CodeValidation, CodeInvalidAdvertisementState, CodeInvalidOperation:
		return http.StatusBadRequest
	case CodeNotFound, CodePersonNotFound, CodeCatNotFound, CodeAdvertisementNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeConcurrentModification, CodeDuplicateContact:
		return http.StatusConflict
	case CodeTooManyRequest:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// New 创建新错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装错误
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func BadRequest(message string) *AppError {
	return New(CodeBadRequest, message)
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, message)
}

func Internal(message string) *AppError {
	return New(CodeInternal, message)
}

func TooManyRequests(message string) *AppError {
	return New(CodeTooManyRequest, message)
}

func Validation(message string) *AppError {
	return New(CodeValidation, message)
}

// Is 检查是否为特定错误码
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// FromDomainError 按哨兵错误把领域错误映射为应用错误
// 先匹配具体哨兵，再按类别兜底；未知错误一律视为内部错误
func FromDomainError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	code := CodeInternal
	switch {
	case errors.Is(err, person.ErrPersonNotFound):
		code = CodePersonNotFound
	case errors.Is(err, person.ErrCatNotFound):
		code = CodeCatNotFound
	case errors.Is(err, person.ErrAdvertisementNotFound):
		code = CodeAdvertisementNotFound
	case errors.Is(err, person.ErrConcurrentModification):
		code = CodeConcurrentModification
	case errors.Is(err, person.ErrDuplicateContact):
		code = CodeDuplicateContact
	case errors.Is(err, shared.ErrNotFound):
		code = CodeNotFound
	case errors.Is(err, shared.ErrInvalidState):
		code = CodeInvalidAdvertisementState
	case errors.Is(err, shared.ErrInvalidOperation):
		code = CodeInvalidOperation
	case errors.Is(err, shared.ErrInvalidInput):
		code = CodeValidation
	case errors.Is(err, shared.ErrConflict):
		code = CodeConflict
	}

	if code == CodeInternal {
		return Wrap(err, CodeInternal, "internal server error")
	}

	mapped := Wrap(err, code, err.Error())
	var fielded interface{ Field() string }
	if errors.As(err, &fielded) {
		mapped.Field = fielded.Field()
	}
	var domainErr *shared.DomainError
	if mapped.Field == "" && errors.As(err, &domainErr) {
		mapped.Field = domainErr.Field
	}
	return mapped
}

package common

import (
	"errors"
	"fmt"
)

// AppError 应用级错误结构
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WrapError 包装错误
func WrapError(code, message string, err error) error {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewError 创建新错误
func NewError(code, message string) error {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// CodeOf 取错误链上第一个 AppError 的错误码，没有则返回空串
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// IsNetworkError 非 2xx、超时、连接失败
func IsNetworkError(err error) bool {
	return CodeOf(err) == ErrCodeNetwork
}

// IsNotFound 资源不存在
func IsNotFound(err error) bool {
	return CodeOf(err) == ErrCodeNotFound
}

// 错误码常量
const (
	ErrCodeNetwork      = "NETWORK_ERROR"
	ErrCodeDecode       = "DECODE_ERROR"
	ErrCodeGitHubAPI    = "GITHUB_API_ERROR"
	ErrCodeHandoff      = "HANDOFF_ERROR"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

package service

import (
	"errors"

	"github.com/d60-Lab/foodgram/internal/validation"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("you do not have permission to perform this action")
	ErrUnauthorized = errors.New("authentication credentials were not provided or are invalid")
)

// rejected 构造非字段级的校验错误（400）
func rejected(msg string) error {
	return validation.FieldError(validation.NonField, msg)
}

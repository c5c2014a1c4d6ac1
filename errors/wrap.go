package errors

import (
	"errors"
)

// Is 和 As 转发到标准库, 调用方只需引入本包

func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }

package errors

// Bot API 常见的状态码

func BadRequest(format string, args ...any) *Error {
	return New(400, format, args...)
}

func Unauthorized(format string, args ...any) *Error {
	return New(401, format, args...)
}

func TooManyRequests(format string, args ...any) *Error {
	return New(429, format, args...)
}

func ServiceUnavailable(format string, args ...any) *Error {
	return New(503, format, args...)
}

// IsUnauthorized 401: token 被吊销或格式错误
func IsUnauthorized(err error) bool {
	return Code(err) == 401
}

// IsTooManyRequests 429: 触发 Bot API 限流, retry_after 在响应体中
func IsTooManyRequests(err error) bool {
	return Code(err) == 429
}

// IsUnavailable 503: 请求未得到 HTTP 应答 (网络错误、超时、取消)
func IsUnavailable(err error) bool {
	return Code(err) == 503
}

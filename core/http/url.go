package http

import (
	"net/url"
)

type UrlOption struct {
	Refs   []string
	Params map[string]string
}

func WithUrlRefs(refs ...string) func(*UrlOption) {
	return func(opt *UrlOption) {
		opt.Refs = refs
	}
}

func WithUrlParams(params map[string]string) func(*UrlOption) {
	return func(opt *UrlOption) {
		opt.Params = params
	}
}

// Url joins base with the references and query parameters.
func Url(base string, opts ...func(*UrlOption)) (string, error) {
	baseUrl, err := url.Parse(base)
	if err != nil {
		return "", err
	}

	opt := &UrlOption{}
	for _, o := range opts {
		o(opt)
	}

	for _, ref := range opt.Refs {
		if ref == "" {
			continue
		}
		baseUrl = baseUrl.JoinPath(ref)
	}

	if len(opt.Params) > 0 {
		q := baseUrl.Query()
		for k, v := range opt.Params {
			q.Add(k, v)
		}
		baseUrl.RawQuery = q.Encode()
	}

	return baseUrl.String(), nil
}

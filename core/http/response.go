package http

import (
	"encoding/json"
	"net/http"
)

// Response is a fully read HTTP response. The body is kept verbatim.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.Body, v)
}

func (r *Response) String() string {
	return string(r.Body)
}

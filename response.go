package wyvern

import (
	"encoding/json"

	"github.com/aofei/mimesniffer"
)

// Status is an HTTP response status code with named aliases for the ones
// handlers reach for most often, plus a Custom escape hatch for anything
// else.
type Status int

// Named status aliases.
const (
	StatusOk                  Status = 200
	StatusCreated             Status = 201
	StatusAccepted            Status = 202
	StatusNoContent           Status = 204
	StatusMovedPermanently    Status = 301
	StatusFound               Status = 302
	StatusNotModified         Status = 304
	StatusBadRequest          Status = 400
	StatusUnauthorized        Status = 401
	StatusForbidden           Status = 403
	StatusNotFound            Status = 404
	StatusMethodNotAllowed    Status = 405
	StatusConflict            Status = 409
	StatusPayloadTooLarge     Status = 413
	StatusUnprocessableEntity Status = 422
	StatusTooManyRequests     Status = 429
	StatusInternalServerError Status = 500
	StatusBadGateway          Status = 502
	StatusServiceUnavailable  Status = 503
)

// Custom returns a Status for any code not covered by a named alias.
func Custom(code int) Status { return Status(code) }

// bodyKind discriminates HttpResponse's body tagged union.
type bodyKind int

const (
	bodyKindEmpty bodyKind = iota
	bodyKindText
	bodyKindHTML
	bodyKindJSON
	bodyKindBinary
)

// StreamFunc lazily produces the next response chunk. It signals
// exhaustion by returning done=true with a nil error; a chunk returned
// alongside done=true is still written. A non-nil error ends the stream
// early. A StreamFunc is single-shot: once its done return value is true,
// it will not be called again.
type StreamFunc func() (chunk []byte, done bool, err error)

// Response is the reified outbound HTTP message (spec value model
// HttpResponse). Its builder methods use move-chaining: each one mutates
// the receiver and returns it, so handlers write
// NewResponse().StatusCode(...).JSON(...).
type Response struct {
	status Status

	headers *Headers

	bodyKind bodyKind
	body     []byte
	bodyObj  interface{} // set alongside bodyKindJSON for pre-marshal introspection

	cookies       []*setCookie
	removeCookies []string

	isStream bool
	stream   StreamFunc
}

// NewResponse returns a Response defaulted to status 200 with an empty
// body, ready for builder chaining.
func NewResponse() *Response {
	return &Response{
		status:  StatusOk,
		headers: NewHeaders(),
	}
}

// StatusCode sets the response status and returns the receiver.
func (r *Response) StatusCode(s Status) *Response {
	r.status = s
	return r
}

// Status returns the response's current status code.
func (r *Response) Status() Status { return r.status }

// Header sets a response header (replace-all) and returns the receiver.
func (r *Response) Header(key, value string) *Response {
	r.headers.Insert(key, value)
	return r
}

// AppendHeader appends a response header value and returns the receiver.
func (r *Response) AppendHeader(key, value string) *Response {
	r.headers.Append(key, value)
	return r
}

// Headers returns the response's header container for direct inspection.
func (r *Response) Headers() *Headers { return r.headers }

// Text sets the body to s as "text/plain; charset=utf-8" and returns the
// receiver.
func (r *Response) Text(s string) *Response {
	r.bodyKind = bodyKindText
	r.body = []byte(s)
	r.headers.Insert("content-type", "text/plain; charset=utf-8")
	return r
}

// HTML sets the body to s as "text/html; charset=utf-8" and returns the
// receiver.
func (r *Response) HTML(s string) *Response {
	r.bodyKind = bodyKindHTML
	r.body = []byte(s)
	r.headers.Insert("content-type", "text/html; charset=utf-8")
	return r
}

// JSON marshals v and sets the body as "application/json; charset=utf-8". A
// marshal error is reported through err; the body is left unchanged on
// failure.
func (r *Response) JSON(v interface{}) (*Response, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return r, &ParseError{Field: "body", Err: err}
	}

	r.bodyKind = bodyKindJSON
	r.body = b
	r.bodyObj = v
	r.headers.Insert("content-type", "application/json; charset=utf-8")
	return r, nil
}

// Binary sets the body to b. If no Content-Type header has been set yet,
// the content type is sniffed from the bytes via mimesniffer, matching the
// teacher's un-typed-body handling.
func (r *Response) Binary(b []byte) *Response {
	r.bodyKind = bodyKindBinary
	r.body = b
	if r.headers.Get("content-type") == "" {
		r.headers.Insert("content-type", mimesniffer.Sniff(b))
	}
	return r
}

// ContentType returns the content type currently in lock-step with the
// active body variant.
func (r *Response) ContentType() string {
	return r.headers.ContentType()
}

// Body returns the raw serialized body bytes of the active body variant. It
// is empty for bodyKindEmpty and meaningless while IsStream is true.
func (r *Response) Body() []byte { return r.body }

// SetCookie appends a cookie to the response's outbound cookie list. Cookies
// are never deduplicated: multiple SetCookie calls for the same name emit
// multiple Set-Cookie lines, in call order.
func (r *Response) SetCookie(name, value string, options CookieOptions) *Response {
	r.cookies = append(r.cookies, &setCookie{name: name, value: value, options: options})
	return r
}

// ClearCookie appends name to the response's remove-cookie list, serialized
// on the wire as "Set-Cookie: name=; Path=/; Max-Age=0".
func (r *Response) ClearCookie(name string) *Response {
	r.removeCookies = append(r.removeCookies, name)
	return r
}

// cookieHeaderValues returns the Set-Cookie header values to emit: every
// SetCookie value in call order, followed by every ClearCookie value in
// call order. Set and clear calls are not interleaved, so a ClearCookie
// made before a SetCookie is still emitted after it.
func (r *Response) cookieHeaderValues() []string {
	values := make([]string, 0, len(r.cookies)+len(r.removeCookies))
	for _, c := range r.cookies {
		if v := c.String(); v != "" {
			values = append(values, v)
		}
	}
	for _, name := range r.removeCookies {
		if v := clearCookieString(name); v != "" {
			values = append(values, v)
		}
	}
	return values
}

// Stream marks the response as a streaming response with fn as its single-
// shot chunk producer, and returns the receiver. A streaming response's
// buffered body fields are ignored by the dispatcher.
func (r *Response) Stream(fn StreamFunc) *Response {
	r.isStream = true
	r.stream = fn
	return r
}

// IsStream reports whether the response was built via Stream.
func (r *Response) IsStream() bool { return r.isStream }

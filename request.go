package wyvern

import (
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// requestBodyKind discriminates Request's body tagged union.
type requestBodyKind int

const (
	requestBodyEmpty requestBodyKind = iota
	requestBodyText
	requestBodyJSON
	requestBodyForm
	requestBodyBinary
	requestBodyBinaryWithFields
)

// Request is the reified inbound HTTP message (spec value model
// HttpRequest). It is created by the Dispatcher per wire request, mutated
// by pre-middlewares and extractors, consumed by the handler, and dropped
// once the post-middleware chain completes.
type Request struct {
	// ID is a per-request correlation identifier, generated fresh on
	// decode and threaded through structured log lines.
	ID string

	Method      string
	Path        string
	OriginURL   string
	ContentType string

	Params  *Params
	Query   *Query
	Headers *Headers
	Cookies map[string]string

	bodyKind requestBodyKind
	bodyText string
	charset  string
	bodyJSON interface{}
	bodyRaw  json.RawMessage
	bodyForm map[string]string
	bodyBin  []byte

	// Data is an auxiliary string-keyed mapping for middleware-to-handler
	// communication, e.g. an authenticated-user handle stashed by an
	// auth pre-middleware.
	Data map[string]interface{}

	IP       string
	XHR      bool
	IsSecure bool
}

// DecodeOptions configures how NewRequest interprets the wire request.
type DecodeOptions struct {
	// TrustProxy authorizes the X-Forwarded-For header to override the
	// observed peer IP.
	TrustProxy bool

	// MaxMultipartMemory is normalized by the multipart decoder (zero or
	// less selects 32 MiB) but does not bound anything: every part of a
	// multipart/form-data body is read fully into memory.
	MaxMultipartMemory int64
}

// NewRequest decodes hr into a Request value, classifying its body per the
// active Content-Type header.
func NewRequest(hr *http.Request, opts DecodeOptions) (*Request, error) {
	req := &Request{
		ID:      uuid.NewString(),
		Method:  hr.Method,
		Path:    hr.URL.Path,
		Headers: NewHeaders(),
		Cookies: map[string]string{},
		Data:    map[string]interface{}{},
	}

	if hr.URL.RawQuery != "" {
		req.OriginURL = hr.URL.Path + "?" + hr.URL.RawQuery
	} else {
		req.OriginURL = hr.URL.Path
	}
	req.Query = ParseQuery(hr.URL.RawQuery)

	for name, values := range hr.Header {
		for _, v := range values {
			req.Headers.Append(name, v)
		}
	}

	if cookieHeader := req.Headers.Get("cookie"); cookieHeader != "" {
		req.Cookies = parseCookieHeader(cookieHeader)
	}

	req.ContentType = req.Headers.ContentType()
	req.IP = resolveIP(hr, req.Headers, opts.TrustProxy)
	req.XHR = strings.EqualFold(req.Headers.Get("x-requested-with"), "XMLHttpRequest")
	req.IsSecure = hr.TLS != nil || strings.EqualFold(req.Headers.Get("x-forwarded-proto"), "https")

	if err := req.decodeBody(hr, opts); err != nil {
		return req, err
	}

	return req, nil
}

func resolveIP(hr *http.Request, h *Headers, trustProxy bool) string {
	if trustProxy {
		if xff := h.Get("x-forwarded-for"); xff != "" {
			if i := strings.IndexByte(xff, ','); i >= 0 {
				xff = xff[:i]
			}
			return strings.TrimSpace(xff)
		}
	}

	host := hr.RemoteAddr
	if i := strings.LastIndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	return host
}

func (r *Request) decodeBody(hr *http.Request, opts DecodeOptions) error {
	if hr.Body == nil {
		r.bodyKind = requestBodyEmpty
		return nil
	}

	mt, params, _ := mime.ParseMediaType(r.ContentType)

	switch {
	case mt == "application/json":
		raw, err := io.ReadAll(hr.Body)
		if err != nil {
			return err
		}
		if len(raw) == 0 {
			r.bodyKind = requestBodyEmpty
			return nil
		}

		var v interface{}
		if err := json.Unmarshal(raw, &v); err != nil {
			r.bodyKind = requestBodyText
			r.bodyText = string(raw)
			r.charset = "utf-8"
			return nil
		}

		r.bodyKind = requestBodyJSON
		r.bodyJSON = v
		r.bodyRaw = json.RawMessage(raw)
		return nil

	case mt == "application/x-www-form-urlencoded":
		raw, err := io.ReadAll(hr.Body)
		if err != nil {
			return err
		}
		q := ParseQuery(string(raw))
		form := map[string]string{}
		q.Each(func(key string, values []string) {
			if len(values) > 0 {
				form[key] = values[0]
			}
		})
		r.bodyKind = requestBodyForm
		r.bodyForm = form
		return nil

	case mt == "multipart/form-data":
		maxMem := opts.MaxMultipartMemory
		if maxMem <= 0 {
			maxMem = 32 << 20
		}

		boundary := params["boundary"]
		mr := multipart.NewReader(hr.Body, boundary)
		form := map[string]string{}

		var rawBuf strings.Builder
		for {
			part, err := mr.NextPart()
			if err == io.EOF {
				break
			}
			if err != nil {
				return err
			}

			data, err := io.ReadAll(part)
			part.Close()
			if err != nil {
				return err
			}

			if part.FileName() != "" {
				rawBuf.Write(data)
				r.Data["file:"+part.FormName()] = data
			} else {
				form[part.FormName()] = string(data)
			}
		}

		r.bodyKind = requestBodyBinaryWithFields
		r.bodyForm = form
		r.bodyBin = []byte(rawBuf.String())
		return nil

	case strings.HasPrefix(mt, "text/") || mt == "application/xml":
		raw, err := io.ReadAll(hr.Body)
		if err != nil {
			return err
		}
		r.bodyKind = requestBodyText
		r.bodyText = string(raw)
		if cs, ok := params["charset"]; ok {
			r.charset = cs
		} else {
			r.charset = "utf-8"
		}
		return nil

	default:
		raw, err := io.ReadAll(hr.Body)
		if err != nil {
			return err
		}
		if len(raw) == 0 {
			r.bodyKind = requestBodyEmpty
			return nil
		}
		r.bodyKind = requestBodyBinary
		r.bodyBin = raw
		return nil
	}
}

// IsJSON reports whether the decoded body is the JSON variant.
func (r *Request) IsJSON() bool { return r.bodyKind == requestBodyJSON }

// JSON unmarshals the JSON body variant into v. It fails with NotMatchedError
// if the body is not JSON, or ParseError if v cannot hold the shape.
func (r *Request) JSON(v interface{}) error {
	if r.bodyKind != requestBodyJSON {
		return &NotMatchedError{What: "request body is not JSON"}
	}
	if err := json.Unmarshal(r.bodyRaw, v); err != nil {
		return &ParseError{Field: "body", Err: err}
	}
	return nil
}

// Text returns the TEXT body variant's content and whether the body was
// in fact TEXT.
func (r *Request) Text() (string, bool) {
	return r.bodyText, r.bodyKind == requestBodyText
}

// Form returns the FORM body variant's field mapping and whether the body
// was FORM or MULTIPART (binary_with_fields shares the form interface).
func (r *Request) Form() (map[string]string, bool) {
	ok := r.bodyKind == requestBodyForm || r.bodyKind == requestBodyBinaryWithFields
	return r.bodyForm, ok
}

// Binary returns the BINARY (or binary_with_fields) body variant's raw
// bytes and whether the body carried raw bytes at all.
func (r *Request) Binary() ([]byte, bool) {
	ok := r.bodyKind == requestBodyBinary || r.bodyKind == requestBodyBinaryWithFields
	return r.bodyBin, ok
}

// File returns the uploaded file bytes stashed under form field name during
// multipart decoding.
func (r *Request) File(name string) ([]byte, bool) {
	b, ok := r.Data["file:"+name].([]byte)
	return b, ok
}

// ContentLength returns the Content-Length header parsed as an integer, or
// -1 if absent or unparsable.
func (r *Request) ContentLength() int64 {
	v := r.Headers.Get("content-length")
	if v == "" {
		return -1
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return -1
	}
	return n
}

package wyvern

import (
	"github.com/go-playground/validator/v10"
)

// Extractor is a polymorphic constructor that projects a Request into a
// value of type T, or fails with a NotFound/Parse/NotMatched/Validation
// error. It is the Go rendering of the spec's
// `extract_from_owned(request) -> Result<Self, error>` contract: instead
// of one method per concrete type, an Extractor is a plain generic
// function, composed by WrapHandler.
type Extractor[T any] func(*Request) (T, error)

var validate = validator.New()

// ExtractParams is an Extractor[T] that projects request.Params into a
// struct of type T via bindParams.
func ExtractParams[T any](req *Request) (T, error) {
	var v T
	if err := bindParams(req.Params, &v); err != nil {
		return v, err
	}
	return v, nil
}

// ExtractQueryParam is an Extractor[T] that projects the parsed query
// string into a struct of type T via bindQuery.
func ExtractQueryParam[T any](req *Request) (T, error) {
	var v T
	if err := bindQuery(req.Query, &v); err != nil {
		return v, err
	}
	return v, nil
}

// ExtractJsonBody decodes the request's JSON body variant into T. It fails
// with NotMatchedError if the body is not JSON, or ParseError if T cannot
// hold its shape.
func ExtractJsonBody[T any](req *Request) (T, error) {
	var v T
	if err := req.JSON(&v); err != nil {
		return v, err
	}
	return v, nil
}

// ExtractJsonBodyValidated decodes the request's JSON body variant into T
// and then runs struct-tag validation over it (go-playground/validator
// `validate:"..."` tags). Decode failures surface as ParseError; tag
// failures surface as ValidationError.
func ExtractJsonBodyValidated[T any](req *Request) (T, error) {
	v, err := ExtractJsonBody[T](req)
	if err != nil {
		return v, err
	}
	if err := validate.Struct(v); err != nil {
		return v, &ValidationError{Err: err}
	}
	return v, nil
}

// ExtractHeaders clones the request's headers. It never fails.
func ExtractHeaders(req *Request) (*Headers, error) {
	return req.Headers.Clone(), nil
}

// ExtractHttpRequest returns the request itself, unmodified. It never
// fails.
func ExtractHttpRequest(req *Request) (*Request, error) {
	return req, nil
}

// extractionFailedResponse renders the deterministic 400 the dispatcher
// returns when an extractor fails, bypassing the user handler entirely. The
// underlying error is wrapped in an ExtractError and the response body is
// that ExtractError's message ("extraction failed: <cause>"). The Response
// carries only this text; the error value itself is not attached to it.
func extractionFailedResponse(err error) *Response {
	wrapped := &ExtractError{Err: err}
	return NewResponse().StatusCode(StatusBadRequest).Text(wrapped.Error())
}

// WrapHandler adapts a handler taking one extracted value into a plain
// Handler. On extraction failure, the user handler is bypassed and the
// deterministic 400 response is returned instead.
func WrapHandler[A any](
	extractA Extractor[A],
	handler func(*Request, A, *Response) (*Response, error),
) Handler {
	return func(req *Request, resp *Response) (*Response, error) {
		a, err := extractA(req)
		if err != nil {
			return extractionFailedResponse(err), nil
		}
		return handler(req, a, resp)
	}
}

// WrapHandler2 adapts a handler taking two extracted values, evaluated
// left-to-right, first error wins — the Go rendering of the spec's tuple
// extractor `(E1, E2)`.
func WrapHandler2[A, B any](
	extractA Extractor[A],
	extractB Extractor[B],
	handler func(*Request, A, B, *Response) (*Response, error),
) Handler {
	return func(req *Request, resp *Response) (*Response, error) {
		a, err := extractA(req)
		if err != nil {
			return extractionFailedResponse(err), nil
		}
		b, err := extractB(req)
		if err != nil {
			return extractionFailedResponse(err), nil
		}
		return handler(req, a, b, resp)
	}
}

// WrapHandler3 adapts a handler taking three extracted values, evaluated
// left-to-right, first error wins.
func WrapHandler3[A, B, C any](
	extractA Extractor[A],
	extractB Extractor[B],
	extractC Extractor[C],
	handler func(*Request, A, B, C, *Response) (*Response, error),
) Handler {
	return func(req *Request, resp *Response) (*Response, error) {
		a, err := extractA(req)
		if err != nil {
			return extractionFailedResponse(err), nil
		}
		b, err := extractB(req)
		if err != nil {
			return extractionFailedResponse(err), nil
		}
		c, err := extractC(req)
		if err != nil {
			return extractionFailedResponse(err), nil
		}
		return handler(req, a, b, c, resp)
	}
}

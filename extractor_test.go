package wyvern

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type userParams struct {
	ID string `params:"id"`
}

type createUserBody struct {
	Name string `json:"name" validate:"required"`
}

func TestExtractParams(t *testing.T) {
	req := &Request{Params: NewParams()}
	req.Params.set("id", "7")

	v, err := ExtractParams[userParams](req)
	assert.NoError(t, err)
	assert.Equal(t, "7", v.ID)
}

func TestExtractQueryParam(t *testing.T) {
	req := &Request{Query: ParseQuery("id=9")}

	v, err := ExtractQueryParam[userParams](req)
	assert.NoError(t, err)
	assert.Equal(t, "9", v.ID)
}

func TestExtractJsonBodyValidatedSuccess(t *testing.T) {
	hr := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"name":"gopher"}`))
	hr.Header.Set("Content-Type", "application/json")
	req, err := NewRequest(hr, DecodeOptions{})
	assert.NoError(t, err)

	v, err := ExtractJsonBodyValidated[createUserBody](req)
	assert.NoError(t, err)
	assert.Equal(t, "gopher", v.Name)
}

func TestExtractJsonBodyValidatedFailure(t *testing.T) {
	hr := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"name":""}`))
	hr.Header.Set("Content-Type", "application/json")
	req, err := NewRequest(hr, DecodeOptions{})
	assert.NoError(t, err)

	_, err = ExtractJsonBodyValidated[createUserBody](req)
	assert.Error(t, err)
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestExtractHeadersClones(t *testing.T) {
	req := &Request{Headers: NewHeaders()}
	req.Headers.Insert("X-Test", "1")

	h, err := ExtractHeaders(req)
	assert.NoError(t, err)
	assert.Equal(t, "1", h.Get("x-test"))

	h.Insert("X-Test", "2")
	assert.Equal(t, "1", req.Headers.Get("x-test"))
}

func TestWrapHandlerRunsHandlerWhenParamMissing(t *testing.T) {
	handlerRan := false
	h := WrapHandler[userParams](
		ExtractParams[userParams],
		func(req *Request, p userParams, res *Response) (*Response, error) {
			handlerRan = true
			return res, nil
		},
	)

	req := &Request{Params: NewParams()} // no "id" param -> mapstructure leaves zero value, no error
	resp, err := h(req, NewResponse())
	assert.NoError(t, err)
	assert.NotNil(t, resp)
	assert.True(t, handlerRan)
}

func TestWrapHandler2FirstErrorWins(t *testing.T) {
	failingA := func(req *Request) (string, error) {
		return "", &NotFoundError{What: "a"}
	}
	calledB := false
	failingB := func(req *Request) (string, error) {
		calledB = true
		return "", &NotFoundError{What: "b"}
	}

	h := WrapHandler2[string, string](failingA, failingB, func(req *Request, a, b string, res *Response) (*Response, error) {
		return res, nil
	})

	resp, err := h(&Request{}, NewResponse())
	assert.NoError(t, err)
	assert.Equal(t, StatusBadRequest, resp.Status())
	assert.False(t, calledB)
	assert.Contains(t, string(resp.Body()), "not found: a")
}

func TestExtractionFailedResponseWrapsExtractError(t *testing.T) {
	resp := extractionFailedResponse(&NotFoundError{What: "id"})
	assert.Equal(t, StatusBadRequest, resp.Status())
	assert.Contains(t, string(resp.Body()), "extraction failed: not found: id")
}

package wyvern

import (
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRequestJSONBody(t *testing.T) {
	hr := httptest.NewRequest(http.MethodPost, "/things?x=1", strings.NewReader(`{"foo":"bar"}`))
	hr.Header.Set("Content-Type", "application/json")

	req, err := NewRequest(hr, DecodeOptions{})
	assert.NoError(t, err)
	assert.NotEmpty(t, req.ID)
	assert.True(t, req.IsJSON())

	var v struct {
		Foo string `json:"foo"`
	}
	assert.NoError(t, req.JSON(&v))
	assert.Equal(t, "bar", v.Foo)

	assert.Equal(t, "1", req.Query.GetAll("x")[0])
}

func TestNewRequestMalformedJSONFallsBackToText(t *testing.T) {
	hr := httptest.NewRequest(http.MethodPost, "/things", strings.NewReader(`{not json`))
	hr.Header.Set("Content-Type", "application/json")

	req, err := NewRequest(hr, DecodeOptions{})
	assert.NoError(t, err)
	assert.False(t, req.IsJSON())

	text, ok := req.Text()
	assert.True(t, ok)
	assert.Equal(t, "{not json", text)
}

func TestNewRequestFormURLEncoded(t *testing.T) {
	hr := httptest.NewRequest(http.MethodPost, "/things", strings.NewReader("a=1&b=2"))
	hr.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	req, err := NewRequest(hr, DecodeOptions{})
	assert.NoError(t, err)

	form, ok := req.Form()
	assert.True(t, ok)
	assert.Equal(t, "1", form["a"])
	assert.Equal(t, "2", form["b"])
}

func TestNewRequestMultipartWithFile(t *testing.T) {
	body := &strings.Builder{}
	mw := multipart.NewWriter(body)
	assert.NoError(t, mw.WriteField("name", "gopher"))
	fw, err := mw.CreateFormFile("avatar", "avatar.png")
	assert.NoError(t, err)
	_, err = fw.Write([]byte("PNGDATA"))
	assert.NoError(t, err)
	assert.NoError(t, mw.Close())

	hr := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(body.String()))
	hr.Header.Set("Content-Type", mw.FormDataContentType())

	req, err := NewRequest(hr, DecodeOptions{})
	assert.NoError(t, err)

	form, ok := req.Form()
	assert.True(t, ok)
	assert.Equal(t, "gopher", form["name"])

	file, ok := req.File("avatar")
	assert.True(t, ok)
	assert.Equal(t, "PNGDATA", string(file))
}

func TestNewRequestBinaryBody(t *testing.T) {
	hr := httptest.NewRequest(http.MethodPost, "/bin", strings.NewReader("\x00\x01\x02"))
	hr.Header.Set("Content-Type", "application/octet-stream")

	req, err := NewRequest(hr, DecodeOptions{})
	assert.NoError(t, err)

	bin, ok := req.Binary()
	assert.True(t, ok)
	assert.Equal(t, []byte("\x00\x01\x02"), bin)
}

func TestResolveIPIgnoresForwardedForByDefault(t *testing.T) {
	hr := httptest.NewRequest(http.MethodGet, "/", nil)
	hr.RemoteAddr = "192.0.2.1:1234"
	hr.Header.Set("X-Forwarded-For", "203.0.113.5")

	req, err := NewRequest(hr, DecodeOptions{TrustProxy: false})
	assert.NoError(t, err)
	assert.Equal(t, "192.0.2.1", req.IP)
}

func TestResolveIPHonorsForwardedForWhenTrusted(t *testing.T) {
	hr := httptest.NewRequest(http.MethodGet, "/", nil)
	hr.RemoteAddr = "192.0.2.1:1234"
	hr.Header.Set("X-Forwarded-For", "203.0.113.5, 192.0.2.1")

	req, err := NewRequest(hr, DecodeOptions{TrustProxy: true})
	assert.NoError(t, err)
	assert.Equal(t, "203.0.113.5", req.IP)
}

func TestRequestCookiesParsed(t *testing.T) {
	hr := httptest.NewRequest(http.MethodGet, "/", nil)
	hr.Header.Set("Cookie", "session=abc; theme=dark")

	req, err := NewRequest(hr, DecodeOptions{})
	assert.NoError(t, err)
	assert.Equal(t, "abc", req.Cookies["session"])
	assert.Equal(t, "dark", req.Cookies["theme"])
}

func TestRequestContentLength(t *testing.T) {
	hr := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("hello"))
	hr.Header.Set("Content-Length", "5")

	req, err := NewRequest(hr, DecodeOptions{})
	assert.NoError(t, err)
	assert.Equal(t, int64(5), req.ContentLength())
}

package wyvern

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type bindFoobar struct {
	Foo string `params:"foo" query:"foo"`
	Bar string `params:"bar" query:"bar"`
}

func TestBindParams(t *testing.T) {
	p := NewParams()
	p.set("foo", "bar")
	p.set("bar", "foo")

	f := bindFoobar{}
	assert.NoError(t, bindParams(p, &f))
	assert.Equal(t, "bar", f.Foo)
	assert.Equal(t, "foo", f.Bar)
}

func TestBindQuery(t *testing.T) {
	q := ParseQuery("foo=bar&bar=foo")

	f := bindFoobar{}
	assert.NoError(t, bindQuery(q, &f))
	assert.Equal(t, "bar", f.Foo)
	assert.Equal(t, "foo", f.Bar)
}

func TestBindQueryFirstValueWins(t *testing.T) {
	q := ParseQuery("foo=first&foo=second")

	type onlyFoo struct {
		Foo string `query:"foo"`
	}

	f := onlyFoo{}
	assert.NoError(t, bindQuery(q, &f))
	assert.Equal(t, "first", f.Foo)
}

func TestBindStringMapWeaklyTyped(t *testing.T) {
	type numeric struct {
		Count int  `params:"count"`
		On    bool `params:"on"`
	}

	p := NewParams()
	p.set("count", "42")
	p.set("on", "true")

	n := numeric{}
	assert.NoError(t, bindParams(p, &n))
	assert.Equal(t, 42, n.Count)
	assert.True(t, n.On)
}

func TestBindParamsErrorWrapsParseError(t *testing.T) {
	type strict struct {
		Count int `params:"count"`
	}

	p := NewParams()
	p.set("count", "not-a-number")

	s := strict{}
	err := bindParams(p, &s)
	assert.Error(t, err)
	var pe *ParseError
	assert.ErrorAs(t, err, &pe)
}

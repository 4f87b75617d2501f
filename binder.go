package wyvern

import "github.com/mitchellh/mapstructure"

// bindParams projects a Params snapshot into dst, an arbitrary struct
// pointer, matching fields by their "params" tag (falling back to the Go
// field name). This grounds the framework's `T::from_params` derive in a
// single reflection-based adapter rather than generated code per type.
func bindParams(params *Params, dst interface{}) error {
	return bindStringMap(params.Map(), "params", dst)
}

// bindQuery projects a Query's first-value-per-key view into dst, matching
// fields by their "query" tag (falling back to the Go field name). This
// grounds the framework's `T::from_query_param` derive.
func bindQuery(query *Query, dst interface{}) error {
	m := map[string]string{}
	query.Each(func(key string, values []string) {
		if len(values) > 0 {
			m[key] = values[0]
		}
	})
	return bindStringMap(m, "query", dst)
}

func bindStringMap(m map[string]string, tag string, dst interface{}) error {
	generic := make(map[string]interface{}, len(m))
	for k, v := range m {
		generic[k] = v
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           dst,
		TagName:          tag,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return &ParseError{Field: tag, Err: err}
	}

	if err := decoder.Decode(generic); err != nil {
		return &ParseError{Field: tag, Err: err}
	}

	return nil
}

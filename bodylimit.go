package wyvern

// DefaultBodyLimit is the body-limit middleware's default maximum request
// body size, in bytes, applied when BodyLimit is constructed with a
// non-positive maxBytes.
const DefaultBodyLimit int64 = 1024 * 1024

// bodyLimitError is the exact JSON shape emitted by BodyLimit when a
// request body exceeds the configured limit.
type bodyLimitError struct {
	Error    string `json:"error"`
	Message  string `json:"message"`
	Limit    int64  `json:"limit"`
	Received int64  `json:"received"`
}

// BodyLimit returns a Pre middleware that rejects requests whose decoded
// body exceeds maxBytes with a 413 response carrying a JSON error body.
// maxBytes <= 0 selects DefaultBodyLimit.
func BodyLimit(maxBytes int64) PreFunc {
	if maxBytes <= 0 {
		maxBytes = DefaultBodyLimit
	}

	return func(req *Request, resp *Response) (*Request, *Response) {
		received := bodySize(req)
		if received <= maxBytes {
			return req, nil
		}

		limitErr := &PayloadTooLargeError{Limit: maxBytes, Received: received}

		body := bodyLimitError{
			Error:    "Request body too large",
			Message:  limitErr.Error(),
			Limit:    maxBytes,
			Received: received,
		}

		out, err := resp.StatusCode(StatusPayloadTooLarge).JSON(body)
		if err != nil {
			// Marshaling a plain struct of strings and ints cannot fail.
			panic(err)
		}

		return req, out
	}
}

func bodySize(req *Request) int64 {
	switch req.bodyKind {
	case requestBodyText:
		return int64(len(req.bodyText))
	case requestBodyJSON:
		return int64(len(req.bodyRaw))
	case requestBodyBinary, requestBodyBinaryWithFields:
		return int64(len(req.bodyBin))
	case requestBodyForm:
		n := 0
		for k, v := range req.bodyForm {
			n += len(k) + len(v)
		}
		return int64(n)
	default:
		return 0
	}
}

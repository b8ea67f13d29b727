package apierror

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// ProviderCode is the "error" field of an error body. The API sends it as a
// string on the token endpoint and as a number on resource endpoints.
type ProviderCode string

// UnmarshalJSON accepts a JSON string, number or null.
func (c *ProviderCode) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = ProviderCode(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*c = ProviderCode(n.String())
	return nil
}

// Int returns the numeric value of the code and whether it is numeric.
func (c ProviderCode) Int() (int, bool) {
	n, err := strconv.Atoi(string(c))
	return n, err == nil
}

// ErrorBody is the JSON shape of error responses from both the token and
// resource endpoints.
type ErrorBody struct {
	Error            ProviderCode `json:"error"`
	ErrorDescription string       `json:"error_description"`
	Message          string       `json:"message"`
}

// ParseErrorBody decodes an error body on a best-effort basis. A body that
// is not a JSON object yields the zero value.
func ParseErrorBody(body []byte) ErrorBody {
	var eb ErrorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ErrorBody{}
	}
	return eb
}

// DescriptionOr returns error_description, or fallback if it is empty.
func (b ErrorBody) DescriptionOr(fallback string) string {
	if b.ErrorDescription != "" {
		return b.ErrorDescription
	}
	return fallback
}

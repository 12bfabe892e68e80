package core

import (
	"bytes"
	"encoding/json"
)

// FlexString is a text value the backend may encode as a JSON string, number or bool.
// null decodes to the empty string.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = FlexString(str)
		return nil
	}
	*s = FlexString(data)
	return nil
}

func (s FlexString) String() string { return string(s) }

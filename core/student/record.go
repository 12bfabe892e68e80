package student

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/collegedesk/console/core"
)

// Record is a student as the backend returns it. Numbers are kept as json.Number.
type Record map[string]interface{}

// DecodeRecord parses a student record, keeping numbers as json.Number.
func DecodeRecord(data []byte) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var r Record
	if err := dec.Decode(&r); err != nil {
		return nil, errors.Wrap(err, "decoding student record")
	}
	return r, nil
}

// ID returns the record id as text.
func (r Record) ID() string {
	s, _ := core.FormString(r[FieldID])
	return s
}

// String returns the text value of field, empty when absent or nil.
func (r Record) String(field string) string {
	s, _ := core.FormString(r[field])
	return s
}

// Clone copies the top level of the record.
func (r Record) Clone() Record {
	c := make(Record, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

// Responses extracts the student_response value as an ordered list.
// The backend stores it as {"call_0": ..., "call_1": ...}; lists are taken as is.
func Responses(v interface{}) []string {
	switch val := v.(type) {
	case []string:
		return append([]string(nil), val...)
	case []interface{}:
		out := make([]string, 0, len(val))
		for _, item := range val {
			s, _ := core.FormString(item)
			out = append(out, s)
		}
		return out
	case map[string]interface{}:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sortCallKeys(keys)
		out := make([]string, 0, len(keys))
		for _, k := range keys {
			s, _ := core.FormString(val[k])
			out = append(out, s)
		}
		return out
	case string:
		// some records carry the map still encoded
		if strings.HasPrefix(strings.TrimSpace(val), "{") {
			var m map[string]interface{}
			if err := json.Unmarshal([]byte(val), &m); err == nil {
				return Responses(m)
			}
		}
		if val == "" {
			return nil
		}
		return []string{val}
	}
	return nil
}

// sortCallKeys orders call_N keys by N; keys without a numeric suffix
// go after them in lexical order.
func sortCallKeys(keys []string) {
	sort.SliceStable(keys, func(i, j int) bool {
		ni, iok := callIndex(keys[i])
		nj, jok := callIndex(keys[j])
		switch {
		case iok && jok:
			if ni != nj {
				return ni < nj
			}
			return keys[i] < keys[j]
		case iok != jok:
			return iok
		default:
			return keys[i] < keys[j]
		}
	})
}

func callIndex(key string) (int, bool) {
	i := strings.LastIndex(key, "_")
	if i < 0 {
		return 0, false
	}
	n, err := strconv.Atoi(key[i+1:])
	if err != nil {
		return 0, false
	}
	return n, true
}

// EncodeResponses renders responses as the backend's call_N object.
// ok is false for an empty list, which is never sent.
func EncodeResponses(responses []string) (string, bool) {
	if len(responses) == 0 {
		return "", false
	}
	m := make(map[string]string, len(responses))
	for i, r := range responses {
		m["call_"+strconv.Itoa(i)] = r
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", false
	}
	return string(b), true
}

package core_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/collegedesk/console/core"
)

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"new delhi college", "New Delhi College"},
		{"NEW DELHI", "New Delhi"},
		{"st.  mary's", "St.  Mary's"},
		{"trailing ", "Trailing "},
		{"", ""},
		{"ébène", "Ébène"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, core.TitleCase(tt.in))
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	assert.Equal(t, "2024-06-01", core.NormalizeDate("2024/06/01"))
	assert.Equal(t, "2024-06-01", core.NormalizeDate("2024-06-01"))
	assert.Equal(t, "", core.NormalizeDate(""))
}

func TestFormString(t *testing.T) {
	tests := []struct {
		name   string
		in     interface{}
		want   string
		wantOK bool
	}{
		{name: "nil", in: nil, wantOK: false},
		{name: "string", in: "abc", want: "abc", wantOK: true},
		{name: "empty string", in: "", want: "", wantOK: true},
		{name: "json number", in: json.Number("12.50"), want: "12.50", wantOK: true},
		{name: "bool", in: true, want: "true", wantOK: true},
		{name: "int", in: 7, want: "7", wantOK: true},
		{name: "float", in: 1500.5, want: "1500.5", wantOK: true},
		{name: "string list", in: []string{"a", "b"}, want: "a,b", wantOK: true},
		{name: "map", in: map[string]string{"call_0": "x"}, want: `{"call_0":"x"}`, wantOK: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := core.FormString(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDocumentURL(t *testing.T) {
	assert.Equal(t, "https://files.example.com/media/a.pdf", core.DocumentURL("https://files.example.com/", "/media/a.pdf"))
	assert.Equal(t, "", core.DocumentURL("https://files.example.com", ""))
}

func TestViewer_Role(t *testing.T) {
	assert.Equal(t, core.RoleAdmin, core.Viewer{IsAdmin: true, IsAgent: true}.Role())
	assert.Equal(t, core.RoleAgent, core.Viewer{IsAgent: true, IsEmployee: true}.Role())
	assert.Equal(t, core.RoleEmployee, core.Viewer{IsEmployee: true}.Role())
	assert.Equal(t, core.RoleEmployee, core.Viewer{}.Role())
}

func TestParseAddresses(t *testing.T) {
	got := core.ParseAddresses("a@example.com", " Ops <ops@example.com> ", "not-an-email")
	if assert.Len(t, got, 2) {
		assert.Equal(t, "a@example.com", got[0].Address)
		assert.Equal(t, "Ops", got[1].Name)
	}
}

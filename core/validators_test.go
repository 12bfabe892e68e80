package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collegedesk/console/core"
)

func TestValidateFields(t *testing.T) {
	translator := core.NewTranslator()
	validate := core.NewValidator(translator)
	rules := map[string]string{
		"name":   "required,notblank",
		"amount": "omitempty,numeric",
		"date":   "required",
	}

	tests := []struct {
		name   string
		values map[string]interface{}
		want   []core.FieldError
	}{
		{
			name:   "valid",
			values: map[string]interface{}{"name": "Anu", "amount": "12.5", "date": "2024/01/01"},
		},
		{
			name:   "missing fields are empty",
			values: map[string]interface{}{"name": "Anu"},
			want:   []core.FieldError{{Field: "date", Error: "this field is required"}},
		},
		{
			name:   "blank and not numeric",
			values: map[string]interface{}{"name": "   ", "amount": "abc", "date": "x"},
			want: []core.FieldError{
				{Field: "amount", Error: "must be a valid number"},
				{Field: "name", Error: "this field cannot be blank"},
			},
		},
		{
			name:   "numbers are rendered before validation",
			values: map[string]interface{}{"name": "Anu", "amount": 12, "date": "x"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := core.ValidateFields(validate, translator, tt.values, rules)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			ve, ok := err.(*core.ValidationError)
			require.True(t, ok, "got %v", err)
			assert.Equal(t, tt.want, ve.Fields)
		})
	}
}

func TestIsCause(t *testing.T) {
	assert.True(t, core.IsCause(core.NewFieldError("brochure", core.ErrFileTooLarge), core.ErrFileTooLarge))
	assert.False(t, core.IsCause(core.NewFieldError("brochure", core.ErrFileTooLarge), core.ErrUnsupportedFile))
	assert.True(t, core.IsCause(core.ErrFieldReadOnly, core.ErrFieldReadOnly))
	assert.False(t, core.IsCause(nil, core.ErrFieldReadOnly))
	assert.Equal(t, "brochure: File size exceeded", core.ValidationError{Fields: []core.FieldError{{Field: "brochure", Error: "File size exceeded"}}}.Error())
}

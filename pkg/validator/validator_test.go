package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name string `validate:"required,notblank,max=10"`
	ID   uint   `validate:"required"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		in    sample
		field string
		tag   string
	}{
		{"ok", sample{Name: "Laptop", ID: 1}, "", ""},
		{"missing name", sample{ID: 1}, "sample.Name", "required"},
		{"blank name", sample{Name: "   ", ID: 1}, "sample.Name", "notblank"},
		{"too long", sample{Name: "abcdefghijk", ID: 1}, "sample.Name", "max"},
		{"missing id", sample{Name: "x"}, "sample.ID", "required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.in)
			if tt.tag == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			if assert.True(t, errors.As(err, &verr)) {
				assert.Equal(t, tt.field, verr.FailedField)
				assert.Equal(t, tt.tag, verr.Tag)
			}
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"required"`
}

func TestValidate(t *testing.T) {
	assert.Nil(t, Validate(sample{Rating: 3, Comment: "ok"}))

	errs := Validate(sample{Rating: 9})
	assert.Equal(t, map[string]string{"rating": "lte", "comment": "required"}, errs)
}

package pincode

import (
	"fmt"

	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"
)

const codeLength = 6

// Code is an Indian postal index number: exactly six ASCII digits.
type Code struct {
	value string
}

// Parse validates s as a pincode.
func Parse(s string) (Code, error) {
	if len(s) != codeLength {
		return Code{}, errs.NewValueIsInvalidErrorWithCause("pincode", fmt.Errorf("%q must have %d digits", s, codeLength))
	}
	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return Code{}, errs.NewValueIsInvalidErrorWithCause("pincode", fmt.Errorf("%q must contain digits only", s))
		}
	}
	return Code{value: s}, nil
}

// MustParse panics when s is not a valid pincode.
func MustParse(s string) Code {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Code) String() string {
	return c.value
}

// Validate rejects the zero Code.
func (c Code) Validate() error {
	if c.value == "" {
		return errs.NewValueIsRequiredError("pincode")
	}
	return nil
}

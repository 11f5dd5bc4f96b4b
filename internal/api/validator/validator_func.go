package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

const (
	amountRegex = `^\d{1,16}(\.\d{1,2})?$`
)

const (
	AmountTag = "amount"
)

var amountPattern = regexp.MustCompile(amountRegex)

var valid = map[string]func(fl validator.FieldLevel) bool{
	AmountTag: ValidateAmount,
}

// ValidateAmount accepts a non-negative decimal in major units with at most two fraction digits.
func ValidateAmount(fl validator.FieldLevel) bool {
	return amountPattern.MatchString(fl.Field().String())
}

package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	moneyRegex = `^\d+(\.\d{1,2})?$`
)

const (
	PositiveDecimalTag = "decimal_gt0"
	MoneyTag           = "money"
)

var moneyPattern = regexp.MustCompile(moneyRegex)

var valid = map[string]func(fl validator.FieldLevel) bool{
	PositiveDecimalTag: ValidatePositiveDecimal,
	MoneyTag:           ValidateMoney,
}

func ValidatePositiveDecimal(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	return err == nil && d.IsPositive()
}

// ValidateMoney accepts non-negative amounts with at most two decimal places.
func ValidateMoney(fl validator.FieldLevel) bool {
	return moneyPattern.MatchString(fl.Field().String())
}

package validator

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/Behyna/cinefund/internal/api/contract"
	"github.com/Behyna/cinefund/internal/constants"
	"github.com/Behyna/cinefund/internal/metrics"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

const sep = " and "

type Error struct {
	Error       bool
	FailedField string
	Tag         string
	Value       interface{}
}

type IXValidator interface {
	Validator(data any, message string, c *fiber.Ctx) (responseErr contract.Response)
	Validate(data interface{}) []Error
}

type XValidator struct {
	validator *validator.Validate
	metrics   *metrics.Metrics
}

func NewXValidator(validate *validator.Validate, metrics *metrics.Metrics) (IXValidator, error) {
	validate.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	validate.RegisterTagNameFunc(jsonFieldName)

	for key, function := range valid {
		if err := validate.RegisterValidation(key, function); err != nil {
			return nil, fmt.Errorf("register %s validation: %w", key, err)
		}
	}

	return &XValidator{validator: validate, metrics: metrics}, nil
}

// Validator parses the request body into data and validates it. A non-empty
// Code on the returned response means the request was rejected and the HTTP
// status has already been set.
func (x XValidator) Validator(data any, message string, c *fiber.Ctx) (responseErr contract.Response) {
	start := time.Now()

	if err := c.BodyParser(data); err != nil {
		c.Status(http.StatusBadRequest)
		x.recordDuration("parse_error", start)

		return contract.Response{
			Code:    constants.ErrCodeInvalidRequestBody,
			Message: constants.GetErrorMessage(constants.ErrCodeInvalidRequestBody),
		}
	}

	if errs := x.Validate(data); len(errs) > 0 && errs[0].Error {
		errMsgs := make([]string, 0, len(errs))
		for _, err := range errs {
			errMsgs = append(errMsgs, fmt.Sprintf(message, err.FailedField))

			if x.metrics != nil {
				x.metrics.RecordValidationError(err.FailedField, err.Tag)
			}
		}
		c.Status(http.StatusUnprocessableEntity)
		x.recordDuration("validation_error", start)

		return contract.Response{
			Code:    constants.ErrCodeValidationFailed,
			Message: strings.Join(errMsgs, sep),
		}
	}

	x.recordDuration("validation_success", start)

	return responseErr
}

func (x XValidator) Validate(data interface{}) []Error {
	var validationErrors []Error

	errs := x.validator.Struct(data)
	if errs == nil {
		return nil
	}

	fieldErrs, ok := errs.(validator.ValidationErrors)
	if !ok {
		return []Error{{Error: true, FailedField: "request", Tag: "invalid"}}
	}

	for _, err := range fieldErrs {
		validationErrors = append(validationErrors, Error{
			Error:       true,
			FailedField: err.Field(),
			Tag:         err.Tag(),
			Value:       err.Value(),
		})
	}

	return validationErrors
}

func (x XValidator) recordDuration(result string, start time.Time) {
	if x.metrics != nil {
		x.metrics.RecordValidationDuration(result, time.Since(start))
	}
}

func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return field.Name
	}
	return name
}

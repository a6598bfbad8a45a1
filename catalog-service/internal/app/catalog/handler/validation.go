package handler

import (
	"errors"
	"fmt"
	"strings"

	"storecase/catalog-service/internal/app/catalog/entity"

	"github.com/go-playground/validator/v10"
)

// fieldErrors collects the first failure per field, keyed by the JSON path of the field.
type fieldErrors map[string]string

type fieldValidator struct {
	v      *validator.Validate
	errors fieldErrors
}

func newFieldValidator(v *validator.Validate) *fieldValidator {
	return &fieldValidator{v: v, errors: fieldErrors{}}
}

func (fv *fieldValidator) check(field string, value interface{}, tag string) {
	if _, failed := fv.errors[field]; failed {
		return
	}

	err := fv.v.Var(value, tag)
	if err == nil {
		return
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fv.errors[field] = fieldMessage(verrs[0])
		return
	}
	fv.errors[field] = "is invalid"
}

// text checks a required string with a length limit; blank input counts as missing.
func (fv *fieldValidator) text(field, value string, max int) {
	fv.check(field, strings.TrimSpace(value), "required")
	fv.check(field, value, fmt.Sprintf("max=%d", max))
}

func (fv *fieldValidator) nonNegative(field string, value *int) {
	if value == nil {
		return
	}
	fv.check(field, *value, "gte=0")
}

func (fv *fieldValidator) result() map[string]string {
	if len(fv.errors) == 0 {
		return nil
	}
	return fv.errors
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be blank"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	default:
		return "is invalid"
	}
}

func validateCategoryRequest(v *validator.Validate, req *entity.CategoryRequest) map[string]string {
	fv := newFieldValidator(v)
	fv.text("name", req.Name, 100)
	return fv.result()
}

func validateCreateProductRequest(v *validator.Validate, req *entity.CreateProductRequest) map[string]string {
	fv := newFieldValidator(v)
	fv.text("productName", req.ProductName, 255)
	fv.text("description", req.Description, 2000)
	fv.nonNegative("price", req.Price)
	fv.nonNegative("stock", req.Stock)
	fv.text("optionName", req.OptionName, 100)
	if req.CategoryID == nil {
		fv.errors["categoryId"] = "must not be null"
	}

	for i := range req.Options {
		opt := &req.Options[i]
		prefix := fmt.Sprintf("options[%d].", i)
		fv.text(prefix+"optionDetail", opt.OptionDetail, 150)
		fv.nonNegative(prefix+"price", &opt.Price)
		fv.nonNegative(prefix+"stock", &opt.Stock)
	}

	return fv.result()
}

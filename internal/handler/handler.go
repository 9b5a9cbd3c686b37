package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/junta-app/junta-engine/internal/service"
	customError "github.com/junta-app/junta-engine/pkg/errors"
	"github.com/junta-app/junta-engine/pkg/response"
)

// Handler serves the HTTP API. It only translates requests into service
// calls; all business rules live in the services.
type Handler struct {
	loans     *service.LoanService
	payments  *service.PaymentService
	capital   *service.CapitalService
	shares    *service.ShareService
	fines     *service.FineService
	members   *service.MemberService
	summaries *service.SummaryService
	validator *validator.Validate
}

func New(
	loans *service.LoanService,
	payments *service.PaymentService,
	capital *service.CapitalService,
	shares *service.ShareService,
	fines *service.FineService,
	members *service.MemberService,
	summaries *service.SummaryService,
) *Handler {
	v := validator.New()
	registerDecimalValidations(v)

	return &Handler{
		loans:     loans,
		payments:  payments,
		capital:   capital,
		shares:    shares,
		fines:     fines,
		members:   members,
		summaries: summaries,
		validator: v,
	}
}

// registerDecimalValidations teaches the validator about decimal.Decimal
// fields so DTO tags like decimal_gt=0 work.
func registerDecimalValidations(v *validator.Validate) {
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("decimal_gt", func(fl validator.FieldLevel) bool {
		param, err := strconv.ParseFloat(fl.Param(), 64)
		if err != nil {
			return false
		}
		return fl.Field().Float() > param
	})

	_ = v.RegisterValidation("decimal_gte", func(fl validator.FieldLevel) bool {
		param, err := strconv.ParseFloat(fl.Param(), 64)
		if err != nil {
			return false
		}
		return fl.Field().Float() >= param
	})
}

// writeError maps business errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var be *customError.BusinessError
	if !errors.As(err, &be) {
		response.InternalServerError(w, "internal error", err)
		return
	}

	switch be.Code {
	case customError.ErrCodeLoanNotFound,
		customError.ErrCodeMemberNotFound,
		customError.ErrCodeFineNotFound,
		customError.ErrCodePaymentNotFound:
		response.NotFound(w, be.Message)
	case customError.ErrCodeInvalidLoanTerms,
		customError.ErrCodeInvalidPayment:
		response.UnprocessableEntity(w, be.Message, be)
	case customError.ErrCodeLoanAlreadySettled:
		response.UnprocessableEntity(w, be.Message, be)
	case customError.ErrCodeConcurrentModification:
		response.Conflict(w, be.Message, be)
	default:
		response.InternalServerError(w, be.Message, be)
	}
}

package checkout

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/angelmondragon/moda-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/moda-storefront/pkg/errors"
)

const (
	MsgEmptyCart   = "El carrito está vacío"
	MsgInvalidForm = "Revisa los datos de envío"
	MsgMissingCard = "Completa los datos de la tarjeta"
	phoneTag       = "telefono"
)

var phonePattern = regexp.MustCompile(`^[0-9+\-\s]{7,15}$`)

// Input is the shipping and payment form submitted at checkout.
type Input struct {
	Name          string `json:"nombre" validate:"required,max=200"`
	Email         string `json:"email" validate:"required,email"`
	Address       string `json:"direccion" validate:"required,max=200"`
	City          string `json:"ciudad" validate:"required,max=120"`
	Phone         string `json:"telefono" validate:"required,telefono"`
	PaymentMethod string `json:"metodo_pago" validate:"required,oneof=contrareembolso tarjeta"`
	CardNumber    string `json:"cardNumber" validate:"required_if=PaymentMethod tarjeta,max=32"`
	CardExpiry    string `json:"cardExpiry" validate:"required_if=PaymentMethod tarjeta,max=32"`
	CardCVV       string `json:"cardCvv" validate:"required_if=PaymentMethod tarjeta,max=32"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	_ = v.RegisterValidation(phoneTag, func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return v
}

func (in Input) normalized() Input {
	trim := strings.TrimSpace
	in.Name = trim(in.Name)
	in.Email = trim(in.Email)
	in.Address = trim(in.Address)
	in.City = trim(in.City)
	in.Phone = trim(in.Phone)
	in.PaymentMethod = strings.ToLower(trim(in.PaymentMethod))
	in.CardNumber = trim(in.CardNumber)
	in.CardExpiry = trim(in.CardExpiry)
	in.CardCVV = trim(in.CardCVV)
	return in
}

// Validate checks the form and returns the parsed payment method.
func (in Input) Validate() (enums.PaymentMethod, error) {
	if err := validate.Struct(in); err != nil {
		return "", formatValidationErrors(err, in)
	}
	method, err := enums.ParsePaymentMethod(in.PaymentMethod)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, MsgInvalidForm)
	}
	return method, nil
}

func formatValidationErrors(err error, in Input) *pkgerrors.Error {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, MsgInvalidForm)
	}
	details := map[string]string{}
	cardMissing := false
	for _, fe := range errs {
		details[fe.Field()] = validationMessage(fe)
		if fe.Tag() == "required_if" {
			cardMissing = true
		}
	}
	msg := MsgInvalidForm
	if cardMissing && len(details) == countCardErrors(details) && in.PaymentMethod == enums.PaymentMethodCard.String() {
		msg = MsgMissingCard
	}
	return pkgerrors.New(pkgerrors.CodeValidation, msg).WithDetails(details)
}

func countCardErrors(details map[string]string) int {
	n := 0
	for _, field := range []string{"cardNumber", "cardExpiry", "cardCvv"} {
		if _, ok := details[field]; ok {
			n++
		}
	}
	return n
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "email":
		return "must be a valid email"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case phoneTag:
		return "must be 7 to 15 digits, spaces, + or -"
	}
	return "is invalid"
}

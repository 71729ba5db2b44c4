package checkout

import (
	"errors"
	"net/http"
	"path"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Skotchmaster/crochet_store/internal/order"
)

const MaxScreenshotBytes = 5 << 20

// Pakistani mobile numbers: 03XX-XXXXXXX with optional +92 / 0092 prefix.
var phonePattern = regexp.MustCompile(`^(\+92|0092|0)?3\d{2}[- ]?\d{7}$`)

type Form struct {
	FullName      string `json:"fullName" form:"fullName" validate:"required"`
	Email         string `json:"email" form:"email" validate:"required,email"`
	Phone         string `json:"phone" form:"phone" validate:"required,pkphone"`
	Address       string `json:"address" form:"address" validate:"required"`
	City          string `json:"city" form:"city"`
	PostalCode    string `json:"postalCode" form:"postalCode"`
	PaymentMethod string `json:"paymentMethod" form:"paymentMethod" validate:"required"`
}

func (f Form) trimmed() Form {
	f.FullName = strings.TrimSpace(f.FullName)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Address = strings.TrimSpace(f.Address)
	f.City = strings.TrimSpace(f.City)
	f.PostalCode = strings.TrimSpace(f.PostalCode)
	f.PaymentMethod = strings.TrimSpace(f.PaymentMethod)
	return f
}

func (f Form) Customer() order.Customer {
	return order.Customer{
		FullName:   f.FullName,
		Email:      f.Email,
		Phone:      f.Phone,
		Address:    f.Address,
		City:       f.City,
		PostalCode: f.PostalCode,
	}
}

type Screenshot struct {
	Filename    string
	ContentType string
	Data        []byte
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("pkphone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return v
}

// validateForm reports the first failing field in declaration order.
func validateForm(f Form) error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &order.ValidationError{Field: "form", Reason: err.Error()}
	}

	first := verrs[0]
	reason := "is invalid"
	switch first.Tag() {
	case "required":
		reason = "is required"
	case "email":
		reason = "must be a valid email address"
	case "pkphone":
		reason = "must be a mobile number like 03XX-XXXXXXX"
	}
	return &order.ValidationError{Field: first.Field(), Reason: reason}
}

func validateScreenshot(s *Screenshot) error {
	if s == nil || len(s.Data) == 0 {
		return &order.ValidationError{Field: "paymentScreenshot", Reason: "is required for this payment method"}
	}
	if len(s.Data) > MaxScreenshotBytes {
		return &order.ValidationError{Field: "paymentScreenshot", Reason: "must be at most 5MB"}
	}
	ct := s.ContentType
	if ct == "" || ct == "application/octet-stream" {
		ct = http.DetectContentType(s.Data)
	}
	if !strings.HasPrefix(ct, "image/") {
		return &order.ValidationError{Field: "paymentScreenshot", Reason: "must be an image"}
	}
	s.ContentType = ct
	return nil
}

func baseName(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == "/" {
		return "screenshot"
	}
	return name
}

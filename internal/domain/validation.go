package domain

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Validation messages shared by registration, login and contact submission.
const (
	MsgInvalidName    = "Name must be 2-50 characters and contain only letters and spaces"
	MsgInvalidEmail   = "Please enter a valid email address"
	MsgWeakPassword   = "Password must be at least 6 characters with uppercase, lowercase, number, and special character"
	MsgShortPassword  = "Password must be at least 6 characters"
	MsgRequiredFields = "Please fill all required fields"
	MsgAmountPositive = "Amount must be greater than 0"
	MsgShortSubject   = "Subject must be at least 3 characters"
	MsgShortMessage   = "Message must be at least 10 characters"
	MsgInvalidRole    = "Role must be either user or admin"
	MsgInvalidStatus  = "Status must be either pending or reviewed"

	passwordSpecials  = "@$!%*?&"
	minPasswordLength = 6
	// MaxPasswordLength is the longest password bcrypt will hash, in bytes.
	MaxPasswordLength = 72
)

var (
	nameRegex  = regexp.MustCompile(`^[a-zA-Z\s]{2,50}$`)
	emailRegex = regexp.MustCompile(`^\w+([\.-]?\w+)*@\w+([\.-]?\w+)*(\.\w{2,3})+$`)

	validate = newValidator()
)

// IsValidName reports whether name is 2-50 ASCII letters or whitespace.
func IsValidName(name string) bool {
	return nameRegex.MatchString(name)
}

// IsValidEmail reports whether email matches the address format accepted at
// registration, login and contact submission.
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// IsStrongPassword reports whether password has six to MaxPasswordLength
// characters drawn from letters, digits and @$!%*?&, including at least one of
// each class.
func IsStrongPassword(password string) bool {
	if len(password) < minPasswordLength || len(password) > MaxPasswordLength {
		return false
	}

	var lower, upper, digit, special bool
	for _, c := range password {
		switch {
		case c >= 'a' && c <= 'z':
			lower = true
		case c >= 'A' && c <= 'Z':
			upper = true
		case c >= '0' && c <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, c):
			special = true
		default:
			return false
		}
	}
	return lower && upper && digit && special
}

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their JSON name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	mustRegister(v, "personname", func(fl validator.FieldLevel) bool {
		return IsValidName(fl.Field().String())
	})
	mustRegister(v, "legacyemail", func(fl validator.FieldLevel) bool {
		return IsValidEmail(fl.Field().String())
	})
	mustRegister(v, "strongpassword", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})
	mustRegister(v, "trimmedmin", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= n
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		// ALLOW-PANIC: tags are registered once at package init
		panic(err)
	}
}

// ValidateStruct validates s against its `validate` struct tags and converts
// the first failure into a *ValidationError. Fields are checked in declaration
// order; the message comes from the failing field's `msg` tag.
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return NewValidationError("", "Invalid input", err)
	}

	fe := fieldErrs[0]
	msg := "Invalid " + fe.Field()
	t := reflect.TypeOf(s)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if sf, ok := t.FieldByName(fe.StructField()); ok {
		if tagMsg := sf.Tag.Get("msg"); tagMsg != "" {
			msg = tagMsg
		}
	}

	return NewValidationError(fe.Field(), msg, ErrValidation)
}

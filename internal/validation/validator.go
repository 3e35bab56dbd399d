// Package validation checks request input before any store is touched and
// reports failures as field errors grouped in named bags.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"akun/internal/apperr"
	"akun/internal/models"

	"github.com/go-playground/validator/v10"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// EmailLookup finds users by email. It is satisfied by repositories.UserRepository.
type EmailLookup interface {
	GetByEmail(email string) (*models.User, error)
}

// ProfileFields is a validated and normalized profile update.
type ProfileFields struct {
	Name  string `json:"name" validate:"required,max=255"`
	Email string `json:"email" validate:"required,email,max=255"`
}

// RegistrationFields is a validated sign-up request.
type RegistrationFields struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// ProductInput is the raw product payload. Absent fields stay nil.
type ProductInput struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
}

// ProductFields is a validated product ready to be created.
type ProductFields struct {
	Name        string   `json:"name" validate:"required,max=255"`
	Description string   `json:"description" validate:"max=1000"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateProfileUpdate checks a profile update for the user currentUserID.
// An email already owned by another user is reported as a conflict on the
// email field.
func ValidateProfileUpdate(name, email, currentUserID string, lookup EmailLookup) (ProfileFields, error) {
	fields := ProfileFields{Name: strings.TrimSpace(name), Email: NormalizeEmail(email)}
	if verr := check(apperr.DefaultBag, fields); verr != nil {
		return ProfileFields{}, verr
	}
	if err := ensureEmailAvailable(fields.Email, currentUserID, lookup); err != nil {
		return ProfileFields{}, err
	}
	return fields, nil
}

// ValidateRegistration checks a sign-up request. The email must not belong
// to any existing user.
func ValidateRegistration(name, email, password string, lookup EmailLookup) (RegistrationFields, error) {
	fields := RegistrationFields{Name: strings.TrimSpace(name), Email: NormalizeEmail(email), Password: password}
	if verr := check(apperr.DefaultBag, fields); verr != nil {
		return RegistrationFields{}, verr
	}
	if err := ensureEmailAvailable(fields.Email, "", lookup); err != nil {
		return RegistrationFields{}, err
	}
	return fields, nil
}

// ValidateAccountDeletion checks the password confirmation of an account
// deletion. Errors go to the userDeletion bag.
func ValidateAccountDeletion(password string, verify func(candidate string) bool) error {
	verr := apperr.NewValidationError(apperr.UserDeletionBag)
	switch {
	case password == "":
		verr.Add("password", "The password field is required.")
	case !verify(password):
		verr.Add("password", "The password is incorrect.")
	default:
		return nil
	}
	return verr
}

// ValidateProduct checks a full product payload.
func ValidateProduct(in ProductInput) (ProductFields, error) {
	fields := ProductFields{Price: in.Price}
	if in.Name != nil {
		fields.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		fields.Description = strings.TrimSpace(*in.Description)
	}
	if verr := check(apperr.DefaultBag, fields); verr != nil {
		return ProductFields{}, verr
	}
	return fields, nil
}

// ValidateProductPatch checks only the fields present in the payload.
func ValidateProductPatch(in ProductInput) (models.ProductChanges, error) {
	var changes models.ProductChanges
	verr := apperr.NewValidationError(apperr.DefaultBag)

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		collect(verr, "name", validate.Var(name, "required,max=255"))
		changes.Name = &name
	}
	if in.Description != nil {
		desc := strings.TrimSpace(*in.Description)
		collect(verr, "description", validate.Var(desc, "max=1000"))
		changes.Description = &desc
	}
	if in.Price != nil {
		collect(verr, "price", validate.Var(*in.Price, "gte=0"))
		changes.Price = in.Price
	}

	if !verr.Empty() {
		return models.ProductChanges{}, verr
	}
	return changes, nil
}

// FromBindError turns a request body decoding failure into a field error when
// the failure is a type mismatch on a single field, e.g. a non-numeric price.
func FromBindError(err error) (*apperr.ValidationError, bool) {
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) && ute.Field != "" {
		field := ute.Field
		if i := strings.LastIndex(field, "."); i >= 0 {
			field = field[i+1:]
		}
		return apperr.NewValidationError(apperr.DefaultBag).Add(field, fmt.Sprintf("The %s field must be a %s.", field, typeName(ute.Type))), true
	}
	return nil, false
}

func ensureEmailAvailable(email, currentUserID string, lookup EmailLookup) error {
	existing, err := lookup.GetByEmail(email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to check email availability: %w", err)
	}
	if existing != nil && existing.ID != currentUserID {
		return &apperr.ConflictError{Field: "email", Value: email}
	}
	return nil
}

func check(bag string, s interface{}) *apperr.ValidationError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	verr := apperr.NewValidationError(bag)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		verr.Add("payload", "The payload is invalid.")
		return verr
	}
	for _, fe := range verrs {
		verr.Add(fe.Field(), message(fe.Field(), fe))
	}
	return verr
}

func collect(verr *apperr.ValidationError, field string, err error) {
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		verr.Add(field, fmt.Sprintf("The %s field is invalid.", field))
		return
	}
	for _, fe := range verrs {
		verr.Add(field, message(field, fe))
	}
}

func message(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", field)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s field must not be greater than %s characters.", field, fe.Param())
		}
		return fmt.Sprintf("The %s field must not be greater than %s.", field, fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s field must be at least %s characters.", field, fe.Param())
		}
		return fmt.Sprintf("The %s field must be at least %s.", field, fe.Param())
	case "gte":
		return fmt.Sprintf("The %s field must be greater than or equal to %s.", field, fe.Param())
	default:
		return fmt.Sprintf("The %s field failed on the '%s' rule.", field, fe.Tag())
	}
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "valid value"
	}
	switch t.Kind() {
	case reflect.Float32, reflect.Float64, reflect.Int, reflect.Int64, reflect.Int32:
		return "number"
	case reflect.String:
		return "string"
	default:
		return t.Kind().String()
	}
}

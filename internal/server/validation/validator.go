// Package validation checks login and registration payloads before the
// authentication service acts on them.
package validation

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/dmitrijs2005/phoneauth/internal/server/models"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// UniquenessChecker answers whether a phone or email is already registered.
// The users repository satisfies it.
type UniquenessChecker interface {
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// Validator runs declarative struct rules and then the uniqueness probes.
type Validator struct {
	validate *validator.Validate
	users    UniquenessChecker
}

func New(users UniquenessChecker) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// registration of built-in names never fails
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("phone", validPhone)
	_ = v.RegisterValidation("password_strength", strongPassword)
	_ = v.RegisterValidation("max_bytes", maxBytes)

	return &Validator{validate: v, users: users}
}

// ValidateLogin returns *ValidationError when req is malformed.
func (v *Validator) ValidateLogin(ctx context.Context, req models.LoginRequest) error {
	verr := &ValidationError{}
	if err := v.collect(ctx, req, verr); err != nil {
		return err
	}
	if verr.empty() {
		return nil
	}
	return verr
}

// ValidateRegistration checks every field and reports all failures at once.
// Phone and email uniqueness is only probed when their format is valid.
func (v *Validator) ValidateRegistration(ctx context.Context, req models.RegisterRequest) error {
	verr := &ValidationError{}
	if err := v.collect(ctx, req, verr); err != nil {
		return err
	}

	if !verr.Has("phone") {
		taken, err := v.users.ExistsByPhone(ctx, req.Phone)
		if err != nil {
			return fmt.Errorf("check phone: %w", err)
		}
		if taken {
			verr.Add("phone", "The phone has already been taken.")
		}
	}

	if req.Email != nil && *req.Email != "" && !verr.Has("email") {
		taken, err := v.users.ExistsByEmail(ctx, *req.Email)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if taken {
			verr.Add("email", "The email has already been taken.")
		}
	}

	if verr.empty() {
		return nil
	}
	return verr
}

func (v *Validator) collect(ctx context.Context, req any, verr *ValidationError) error {
	err := v.validate.StructCtx(ctx, req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), message(fe))
	}
	return nil
}

func message(fe validator.FieldError) string {
	attr := strings.ReplaceAll(fe.Field(), "_", " ")

	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("The %s field is required.", attr)
	case "min":
		return fmt.Sprintf("The %s must be at least %s characters.", attr, fe.Param())
	case "max":
		return fmt.Sprintf("The %s may not be greater than %s characters.", attr, fe.Param())
	case "max_bytes":
		return fmt.Sprintf("The %s may not be greater than %s bytes.", attr, fe.Param())
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", attr)
	case "eqfield":
		return fmt.Sprintf("The %s confirmation does not match.", attr)
	case "phone", "password_strength":
		return fmt.Sprintf("The %s format is invalid.", attr)
	default:
		return fmt.Sprintf("The %s is invalid.", attr)
	}
}

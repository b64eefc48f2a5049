// Package validation wraps go-playground/validator for the two places rows
// and payloads enter the system: store adapters and HTTP handlers.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/vanshika/netintel/internal/domain"
)

var (
	instance *validator.Validate
	once     sync.Once
)

// Validator returns the shared validator instance. Field names in errors use
// the json tag so they match what callers sent.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
		instance = v
	})
	return instance
}

// Row validates an entity read from a store. A row that fails validation is
// reported as ErrStoreUnavailable: the store returned data the engine cannot
// trust, and substituting defaults would hide that.
func Row(kind string, row any) error {
	if err := Validator().Struct(row); err != nil {
		return domain.StoreUnavailable(fmt.Sprintf("validate %s row", kind), err)
	}
	return nil
}

// Request validates an inbound payload and converts the first failure into an
// InvalidArgumentError naming the field.
func Request(payload any) error {
	err := Validator().Struct(payload)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return domain.InvalidArgument(fieldPath(fe), "failed %s validation", fe.Tag())
	}
	return domain.InvalidArgument("body", "%v", err)
}

// fieldPath drops the top-level struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.Field()
}

package validation

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mwalimu/shulesync/internal/models"
)

// datefmtTag validates day-granularity date strings ("2006-01-02").
const datefmtTag = "datefmt"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report JSON field names in errors instead of Go struct names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation(datefmtTag, func(fl validator.FieldLevel) bool {
		_, err := time.Parse(models.DateLayout, fl.Field().String())
		return err == nil
	})

	return v
}

// ValidateEntity checks a record against its declared constraints. It is the
// gate at the local store boundary: nothing invalid is ever persisted or
// queued, however the record arrived.
func ValidateEntity(e models.Entity) error {
	if e == nil {
		return fmt.Errorf("record is nil")
	}
	if err := validate.Struct(e); err != nil {
		return fmt.Errorf("invalid %s record: %w", e.Collection(), err)
	}
	return nil
}

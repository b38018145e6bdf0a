// Package validate provides the shared struct validator with english messages
package validate

import (
	"context"
	"reflect"
	"strings"
	"sync"

	perr "github.com/spektr-org/jobsift/internal/platform/errors"
	"github.com/spektr-org/jobsift/internal/platform/logger"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// FieldLevel aliases validator.FieldLevel
type FieldLevel = validator.FieldLevel

// Svc holds a singleton validator and translator
type Svc struct {
	Validator  *validator.Validate
	Translator ut.Translator
}

var (
	vOnce sync.Once
	vSvc  *Svc
	tagMu sync.Mutex
)

// Init initializes the singleton validator with english translations and json tag names
func Init() *Svc {
	vOnce.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		trans, _ := uni.GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())

		// prefer json tag names in messages
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("json")
			if tag == "-" || tag == "" {
				return fld.Name
			}
			if idx := strings.Index(tag, ","); idx >= 0 {
				tag = tag[:idx]
			}
			return tag
		})

		_ = en_translations.RegisterDefaultTranslations(v, trans)

		registerMessage(v, trans, "datetime", "{0} must be a date in the form {1}", true)

		vSvc = &Svc{Validator: v, Translator: trans}
	})
	return vSvc
}

// Get returns the validator singleton, initializing on first use
func Get() *Svc { return Init() }

// RegisterTag registers a custom tag with its english message. {0} is the
// field name. Registering the same tag twice replaces it.
func RegisterTag(tag string, fn validator.Func, message string) error {
	s := Get()
	tagMu.Lock()
	defer tagMu.Unlock()
	if err := s.Validator.RegisterValidation(tag, fn); err != nil {
		return err
	}
	registerMessage(s.Validator, s.Translator, tag, message, true)
	return nil
}

// RegisterTagCtx is RegisterTag for checks that read values carried on the
// context passed to StructCtx.
func RegisterTagCtx(tag string, fn validator.FuncCtx, message string) error {
	s := Get()
	tagMu.Lock()
	defer tagMu.Unlock()
	if err := s.Validator.RegisterValidationCtx(tag, fn); err != nil {
		return err
	}
	registerMessage(s.Validator, s.Translator, tag, message, true)
	return nil
}

// Struct validates v and maps the first failure to a Validation error carrying
// the offending field
func Struct(v any) error { return StructCtx(context.Background(), v) }

// StructCtx is Struct with a context visible to tags registered via RegisterTagCtx
func StructCtx(ctx context.Context, v any) error {
	err := Get().Validator.StructCtx(ctx, v)
	if err == nil {
		return nil
	}
	if inv, ok := err.(*validator.InvalidValidationError); ok {
		logger.Get().Error().Err(inv).Msg("validator internal error")
		return perr.Wrap(inv, perr.ErrorCodeUnknown, "validation error")
	}
	field, msg := FieldAndMessage(err)
	return perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s", msg), field)
}

// FieldAndMessage returns the first field and translated message
func FieldAndMessage(err error) (field, message string) {
	if err == nil {
		return "", ""
	}
	if inv, ok := err.(*validator.InvalidValidationError); ok {
		return "", inv.Error()
	}
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		fe := verrs[0]
		return fe.Field(), fe.Translate(Get().Translator)
	}
	return "", err.Error()
}

func registerMessage(v *validator.Validate, trans ut.Translator, tag, text string, override bool) {
	_ = v.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error {
			return ut.Add(tag, text, override)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T(tag, fe.Field(), fe.Param())
			return msg
		},
	)
}

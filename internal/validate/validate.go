// Package validate wraps a shared struct validator with English messages.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

type svc struct {
	v     *validator.Validate
	trans ut.Translator
}

var (
	once sync.Once
	inst *svc
)

func get() *svc {
	once.Do(func() {
		enLoc := en.New()
		trans, _ := ut.New(enLoc, enLoc).GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())

		// Report fields by the name users type: env tag, then json tag.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, key := range []string{"env", "json"} {
				tag := fld.Tag.Get(key)
				if i := strings.IndexByte(tag, ','); i >= 0 {
					tag = tag[:i]
				}
				if tag != "" && tag != "-" {
					return tag
				}
			}
			return fld.Name
		})

		_ = en_translations.RegisterDefaultTranslations(v, trans)
		inst = &svc{v: v, trans: trans}
	})
	return inst
}

// Error carries every failed field with a readable message.
type Error struct {
	Fields   []string
	Messages []string
}

func (e *Error) Error() string {
	return strings.Join(e.Messages, "; ")
}

// Struct validates s and returns an *Error listing each failed field.
func Struct(s any) error {
	g := get()
	err := g.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}
	out := &Error{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, fe.Field())
		out.Messages = append(out.Messages, fe.Translate(g.trans))
	}
	return out
}

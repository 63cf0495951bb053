package validate

import (
	"errors"
	"strings"
	"testing"
)

type sample struct {
	Mode string `env:"NOVA_MODE" validate:"oneof=text voice"`
	Text string `json:"text" validate:"required"`
	Port int    `validate:"min=1"`
}

func TestStructOK(t *testing.T) {
	t.Parallel()
	if err := Struct(sample{Mode: "text", Text: "hi", Port: 1}); err != nil {
		t.Fatalf("Struct: %v", err)
	}
}

func TestStructReportsUserFacingNames(t *testing.T) {
	t.Parallel()

	err := Struct(sample{Mode: "telepathy"})
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("err = %T %v", err, err)
	}
	if strings.Join(verr.Fields, ",") != "NOVA_MODE,text,Port" {
		t.Fatalf("fields = %v", verr.Fields)
	}
	if !strings.Contains(err.Error(), "NOVA_MODE must be one of [text voice]") {
		t.Fatalf("message = %q", err.Error())
	}
	if !strings.Contains(err.Error(), "text is a required field") {
		t.Fatalf("message = %q", err.Error())
	}
}

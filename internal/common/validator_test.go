package common

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

type sizeRequest struct {
	Source string `validate:"required,oneof=icon foreground"`
	Size   int    `validate:"min=1,max=4096"`
}

func TestGenericEchoValidator(t *testing.T) {
	v := &GenericEchoValidator{}

	if err := v.Validate(&sizeRequest{Source: "icon", Size: 48}); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}

	err := v.Validate(&sizeRequest{Source: "banner", Size: 0})
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *echo.HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", httpErr.Code)
	}
	msg, _ := httpErr.Message.(string)
	for _, want := range []string{"source (oneof)", "size (min)"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
}

package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "config error",
			code:    "E101",
			wantMsg: "Param tuple has wrong arity",
			wantCat: CategoryConfig,
		},
		{
			name:    "navigation error",
			code:    "E200",
			wantMsg: "Unknown navigation target",
			wantCat: CategoryNavigation,
		},
		{
			name:    "cli error",
			code:    "E301",
			wantMsg: "Invalid port",
			wantCat: CategoryCLI,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryNavigation, "path %q rejected", "/x")
	if err.Message != `path "/x" rejected` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Category != CategoryNavigation {
		t.Errorf("Category = %q, want %q", err.Category, CategoryNavigation)
	}
}

func TestRouteError_Error(t *testing.T) {
	err := New("E104").At("/users/:id")
	want := "E104: Invalid segment name at /users/:id"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err2 := &RouteError{Message: "plain"}
	if err2.Error() != "plain" {
		t.Errorf("Error() = %q, want %q", err2.Error(), "plain")
	}

	err3 := New("E109").Wrap(fmt.Errorf("disk on fire"))
	if !strings.HasSuffix(err3.Error(), ": disk on fire") {
		t.Errorf("Error() = %q, want wrapped cause suffix", err3.Error())
	}
}

func TestRouteError_Is(t *testing.T) {
	err := fmt.Errorf("loading: %w", New("E102").At("/a"))

	if !stderrors.Is(err, ErrConfig) {
		t.Error("expected errors.Is(err, ErrConfig)")
	}
	if stderrors.Is(err, ErrNavigation) {
		t.Error("config error must not match ErrNavigation")
	}
	if !stderrors.Is(err, New("E102")) {
		t.Error("expected match by code")
	}
	if stderrors.Is(err, New("E103")) {
		t.Error("different code must not match")
	}
}

func TestRouteError_Unwrap(t *testing.T) {
	cause := stderrors.New("root cause")
	err := New("E109").Wrap(cause)
	if !stderrors.Is(err, cause) {
		t.Error("expected wrapped cause to be reachable")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E109") != nil {
		t.Fatal("FromError(nil) should be nil")
	}

	orig := New("E105")
	if FromError(fmt.Errorf("ctx: %w", orig), "E109") != orig {
		t.Error("FromError should return existing RouteError")
	}

	wrapped := FromError(stderrors.New("boom"), "E109")
	if wrapped.Code != "E109" || wrapped.Wrapped == nil {
		t.Errorf("FromError = %+v", wrapped)
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(fmt.Errorf("x: %w", New("E200"))); got != "E200" {
		t.Errorf("CodeOf = %q, want E200", got)
	}
	if got := CodeOf(stderrors.New("x")); got != "" {
		t.Errorf("CodeOf = %q, want empty", got)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("E104").At("/users/:id").WithSuggestion("rename it")
	out := err.Format()

	for _, want := range []string{"ERROR E104: Invalid segment name", "at /users/:id", "Hint: rename it"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Error("Format() should not contain ANSI codes when colors are disabled")
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("E105").At("/a")
	if got := err.FormatCompact(); got != "/a: E105: Duplicate branch key" {
		t.Errorf("FormatCompact() = %q", got)
	}
}

func TestFormatJSON(t *testing.T) {
	err := New("E200").At("/nowhere").Wrap(stderrors.New("no match"))

	var decoded map[string]any
	if jerr := json.Unmarshal([]byte(err.FormatJSON()), &decoded); jerr != nil {
		t.Fatalf("FormatJSON produced invalid JSON: %v", jerr)
	}
	if decoded["code"] != "E200" || decoded["category"] != "navigation" || decoded["location"] != "/nowhere" {
		t.Errorf("decoded = %v", decoded)
	}
	if decoded["cause"] != "no match" {
		t.Errorf("cause = %v", decoded["cause"])
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText(strings.Repeat("word ", 40), 20)
	for _, l := range lines {
		if len(l) > 20 {
			t.Errorf("line %q exceeds width", l)
		}
	}
	if wrapText("", 10) != nil {
		t.Error("wrapText(\"\") should be nil")
	}
}

func TestFprint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	Fprint(&buf, New("E100"))
	if !strings.Contains(buf.String(), "E100") {
		t.Errorf("Fprint output = %q", buf.String())
	}

	buf.Reset()
	Fprint(&buf, stderrors.New("plain failure"))
	if !strings.Contains(buf.String(), "ERROR: plain failure") {
		t.Errorf("Fprint output = %q", buf.String())
	}
}

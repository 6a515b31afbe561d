package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/taeyang999/xposconnect-sub000/pkg/enums"
	pkgerrors "github.com/taeyang999/xposconnect-sub000/pkg/errors"
)

type invitePayload struct {
	Email string         `json:"email" validate:"required,email"`
	Count int            `json:"count" validate:"gte=0"`
	Role  *enums.AppRole `json:"role" validate:"omitempty,enum"`
}

func TestDecodeJSONBody(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@example.com","count":2}`))
	var p invitePayload
	if err := DecodeJSONBody(req, &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Email != "a@example.com" || p.Count != 2 {
		t.Fatalf("unexpected payload %+v", p)
	}
}

func TestDecodeJSONBodyRejectsUnknownAndInvalid(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@example.com","extra":true}`))
	if err := DecodeJSONBody(req, &invitePayload{}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected unknown field rejection, got %v", err)
	}

	req = httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"nope","count":-1}`))
	err := DecodeJSONBody(req, &invitePayload{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok || details["email"] != "must be a valid email" || details["count"] == "" {
		t.Fatalf("unexpected details %#v", typed.Details())
	}
}

func TestDecodeJSONBodyEnumsAndFraming(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@example.com","role":"manager"}`))
	var ok invitePayload
	if err := DecodeJSONBody(req, &ok); err != nil || ok.Role == nil || *ok.Role != enums.AppRoleManager {
		t.Fatalf("expected manager role, got %+v %v", ok, err)
	}

	req = httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@example.com","role":"owner"}`))
	typed := pkgerrors.As(DecodeJSONBody(req, &invitePayload{}))
	if typed == nil {
		t.Fatal("expected enum rejection")
	}
	if details, _ := typed.Details().(map[string]string); details["role"] == "" {
		t.Fatalf("expected role detail, got %#v", typed.Details())
	}

	cases := map[string]string{
		"empty":     ``,
		"trailing":  `{"email":"a@example.com"} {"email":"b@example.com"}`,
		"type":      `{"email":"a@example.com","count":"two"}`,
		"too large": `{"email":"` + strings.Repeat("a", MaxBodyBytes) + `@example.com"}`,
	}
	for name, body := range cases {
		req := httptest.NewRequest("POST", "/", strings.NewReader(body))
		if err := DecodeJSONBody(req, &invitePayload{}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
}

func TestQueryParsers(t *testing.T) {
	req := httptest.NewRequest("GET", "/?limit=5&low=true&from=2026-03-01&customer_id=bad&q=%20pump%20", nil)

	if v, err := ParseQueryInt(req, "limit", 25, 1, 100); err != nil || v != 5 {
		t.Fatalf("limit: %d %v", v, err)
	}
	if _, err := ParseQueryInt(req, "limit", 25, 10, 100); err == nil {
		t.Fatal("expected out of range error")
	}
	if v, err := ParseQueryBool(req, "low"); err != nil || !v {
		t.Fatalf("low: %v %v", v, err)
	}
	if v, err := ParseQueryTime(req, "from"); err != nil || v.Format("2006-01-02") != "2026-03-01" {
		t.Fatalf("from: %v %v", v, err)
	}
	if _, err := ParseQueryUUID(req, "customer_id"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected uuid validation error, got %v", err)
	}
	if v, err := ParseQueryUUID(req, "missing"); err != nil || v != nil {
		t.Fatalf("missing uuid should be nil: %v %v", v, err)
	}
	if got := ParseQuerySearch(req, "q"); got != "pump" {
		t.Fatalf("search: %q", got)
	}
}

func TestBearerToken(t *testing.T) {
	cases := map[string]bool{
		"Bearer abc.def": true,
		"bearer abc.def": true,
		"abc.def":        true,
		"":               false,
		"Bearer ":        false,
		"  bearer\t":     false,
		"Bearer":         false,
		"Bearer a b":     false,
		"Basic abc":      false,
	}
	for raw, ok := range cases {
		token, err := BearerToken(raw)
		if (err == nil) != ok {
			t.Errorf("BearerToken(%q) error = %v", raw, err)
		}
		if ok && token != "abc.def" {
			t.Errorf("BearerToken(%q) = %q", raw, token)
		}
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  héllo wörld ", 5); got != "héllo" {
		t.Fatalf("unexpected %q", got)
	}
}

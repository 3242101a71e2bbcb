package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/daniyalishaq1/data-aggregator/pkg/errors"
)

type samplePayload struct {
	Filename string `json:"filename" validate:"required,min=1,max=20"`
	Limit    int    `json:"limit" validate:"omitempty,min=1"`
}

func decodeRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestDecodeJSONBodySuccess(t *testing.T) {
	t.Parallel()
	var payload samplePayload
	if err := DecodeJSONBody(decodeRequest(`{"filename":"report.xlsx","limit":5}`), &payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Filename != "report.xlsx" || payload.Limit != 5 {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	var payload samplePayload
	err := DecodeJSONBody(decodeRequest(`{"filename":"a","extra":true}`), &payload)
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyValidationDetailsUseJSONNames(t *testing.T) {
	t.Parallel()
	var payload samplePayload
	err := DecodeJSONBody(decodeRequest(`{"limit":0}`), &payload)
	if err == nil {
		t.Fatal("expected validation error")
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected detail map, got %T", typed.Details())
	}
	if details["filename"] != "is required" {
		t.Fatalf("expected json field name in details, got %v", details)
	}
}

func TestDecodeJSONBodyMalformed(t *testing.T) {
	t.Parallel()
	var payload samplePayload
	if err := DecodeJSONBody(decodeRequest(`{"filename":`), &payload); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

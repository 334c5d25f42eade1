package middleware

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
)

type addressPayload struct {
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	ZipCode string `json:"zip_code" validate:"required"`
	Country string `json:"country"`
}

type productPayload struct {
	ID    string  `json:"id" validate:"required"`
	Name  string  `json:"name" validate:"required"`
	Email string  `json:"email" validate:"omitempty,email"`
	Price float64 `json:"price" validate:"required,gt=0"`
}

func TestDecodeAndValidateAcceptsValidBody(t *testing.T) {
	body := `{"id":"0001","name":"Vintage Tee","price":25.0}`
	r := httptest.NewRequest("POST", "/api/products", strings.NewReader(body))

	var payload productPayload
	if err := DecodeAndValidate(r, &payload); err != nil {
		t.Fatalf("expected valid body to pass, got %v", err)
	}
	if payload.ID != "0001" || payload.Price != 25.0 {
		t.Fatalf("decoded payload mismatch: %+v", payload)
	}
}

func TestDecodeAndValidateRejectsMalformedJSON(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/products", strings.NewReader(`{"id":`))

	var payload productPayload
	if err := DecodeAndValidate(r, &payload); err == nil {
		t.Fatal("expected decode error for malformed JSON")
	}
}

func TestFormatValidationErrorsCoversTags(t *testing.T) {
	payload := productPayload{Email: "not-an-email", Price: -5}

	err := ValidateRequest(payload)
	if err == nil {
		t.Fatal("expected validation to fail")
	}

	formatted := FormatValidationErrors(err)
	messages := make(map[string]string, len(formatted))
	for _, fe := range formatted {
		messages[fe.Field] = fe.Message
	}

	if messages["ID"] != "This field is required" {
		t.Errorf("unexpected message for ID: %q", messages["ID"])
	}
	if messages["Email"] != "Invalid email format" {
		t.Errorf("unexpected message for Email: %q", messages["Email"])
	}
	if messages["Price"] != "Value must be greater than 0" {
		t.Errorf("unexpected message for Price: %q", messages["Price"])
	}
}

func TestFormatValidationErrorsIgnoresNonValidatorErrors(t *testing.T) {
	if formatted := FormatValidationErrors(errors.New("connection reset")); formatted != nil {
		t.Fatalf("expected nil for non-validator error, got %v", formatted)
	}
}

func TestValidateRequestOptionalFields(t *testing.T) {
	payload := addressPayload{
		Street:  "1 Main St",
		City:    "Austin",
		State:   "TX",
		ZipCode: "78701",
	}

	if err := ValidateRequest(payload); err != nil {
		t.Fatalf("country is optional, validation should pass: %v", err)
	}
}

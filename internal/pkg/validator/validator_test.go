package validator

import (
	"errors"
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidPhoneNumber(t *testing.T) {
	valid := []string{"0812345678", "081-234-5678", "+66812345678", "021234567"}
	invalid := []string{"", "12345", "+62812345678", "08123456789012", "08abc45678"}
	for _, p := range valid {
		if !IsValidPhoneNumber(p) {
			t.Errorf("IsValidPhoneNumber(%q) = false, want true", p)
		}
	}
	for _, p := range invalid {
		if IsValidPhoneNumber(p) {
			t.Errorf("IsValidPhoneNumber(%q) = true, want false", p)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31"}
	invalid := []string{"2023-13-01", "2023-02-30", "01-01-2023", ""}
	for _, d := range valid {
		if _, ok := IsValidDate(d); !ok {
			t.Errorf("IsValidDate(%q) = false, want true", d)
		}
	}
	for _, d := range invalid {
		if _, ok := IsValidDate(d); ok {
			t.Errorf("IsValidDate(%q) = true, want false", d)
		}
	}
}

func TestLengthBetween(t *testing.T) {
	if !LengthBetween("ไม่สบายมากครับ", 10, 500) {
		t.Errorf("thai text of 14 runes should be within 10..500")
	}
	if LengthBetween("  short  ", 10, 500) {
		t.Errorf("trimmed text of 5 runes should be rejected")
	}
}

func TestValidationErrorsToMapJoinsDuplicates(t *testing.T) {
	var errs ValidationErrors
	errs.Add("latitude", "is required")
	errs.Add("latitude", "must be between -90 and 90")
	errs.Add("longitude", "is required")

	m := errs.ToMap()
	if m["latitude"] != "is required; must be between -90 and 90" {
		t.Errorf("unexpected latitude message %q", m["latitude"])
	}
	if len(m) != 2 {
		t.Errorf("expected 2 fields, got %d", len(m))
	}
}

func TestErrIsNilWhenEmpty(t *testing.T) {
	var errs ValidationErrors
	if errs.Err() != nil {
		t.Errorf("expected nil error for empty ValidationErrors")
	}
	errs.Add("x", "bad")
	var target ValidationErrors
	if !errors.As(errs.Err(), &target) {
		t.Errorf("expected ValidationErrors to be returned")
	}
}

type structSample struct {
	Email  *string  `json:"email" validate:"omitempty,email"`
	Salary *float64 `json:"salary" validate:"omitempty,gte=0"`
	Phone  *string  `json:"phone" validate:"omitempty,thphone"`
}

func TestStruct(t *testing.T) {
	email := "not-an-email"
	salary := -1.0
	phone := "0812345678"

	err := Struct(structSample{Email: &email, Salary: &salary, Phone: &phone})
	var errs ValidationErrors
	if !errors.As(err, &errs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	m := errs.ToMap()
	if _, ok := m["email"]; !ok {
		t.Errorf("expected email violation, got %v", m)
	}
	if _, ok := m["salary"]; !ok {
		t.Errorf("expected salary violation, got %v", m)
	}
	if _, ok := m["phone"]; ok {
		t.Errorf("phone should be valid, got %v", m)
	}

	if err := Struct(structSample{}); err != nil {
		t.Errorf("nil pointers should pass omitempty, got %v", err)
	}
}

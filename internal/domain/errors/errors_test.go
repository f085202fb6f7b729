package errors

import "testing"

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(ErrEntityNotFound) {
		t.Fatal("expected ErrEntityNotFound to be NotFound")
	}
	if !IsNotFound(ErrProductsNotFound) {
		t.Fatal("expected ErrProductsNotFound to be NotFound")
	}
	if IsNotFound(ErrEmptyOrder) {
		t.Fatal("did not expect ErrEmptyOrder to be NotFound")
	}
}

func TestValidationErrors_Add(t *testing.T) {
	var errs ValidationErrors
	errs.Add("items", "must not be empty")

	if !errs.HasErrors() {
		t.Fatal("expected HasErrors to be true")
	}
	if !IsValidationError(errs) {
		t.Fatal("expected IsValidationError to be true")
	}
}

func TestBusinessRuleViolation(t *testing.T) {
	err := NewBusinessRuleViolation("SINGLE_WAREHOUSE", "no warehouse can fulfill every item", nil)
	if !IsBusinessRuleViolation(err) {
		t.Fatal("expected IsBusinessRuleViolation to be true")
	}
}

func TestIdempotencyErrors(t *testing.T) {
	if !IsIdempotencyInFlight(IdempotencyInFlightError{Key: "k1"}) {
		t.Fatal("expected IsIdempotencyInFlight to be true")
	}
	if !IsIdempotencyParamsMismatch(IdempotencyParamsMismatchError{Key: "k1"}) {
		t.Fatal("expected IsIdempotencyParamsMismatch to be true")
	}
}

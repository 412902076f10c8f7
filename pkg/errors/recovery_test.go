package errors

import (
	"math"
	"strings"
	"testing"
)

func TestRecoverConvertsPanic(t *testing.T) {
	fn := func() (err error) {
		defer Recover(&err, "testOperation")
		panic("something went wrong")
	}

	err := fn()
	if err == nil {
		t.Fatal("panic should be converted to an error")
	}

	var panicErr *PanicError
	if !As(err, &panicErr) {
		t.Fatalf("error = %v, want PanicError", err)
	}
	if panicErr.Operation != "testOperation" {
		t.Errorf("Operation = %q, want %q", panicErr.Operation, "testOperation")
	}
	if panicErr.StackTrace == "" {
		t.Error("stack trace should be captured")
	}
}

func TestRecoverKeepsExistingError(t *testing.T) {
	original := New("original failure")
	fn := func() (err error) {
		defer Recover(&err, "testOperation")
		err = original
		panic("late panic")
	}

	err := fn()
	if err == nil {
		t.Fatal("expected an error")
	}
	// 既存のエラーはpanic情報でラップされる
	if !Is(err, original) {
		t.Errorf("original error must be preserved in the chain: %v", err)
	}
	if !strings.Contains(err.Error(), "late panic") {
		t.Errorf("panic value must appear in the message: %v", err)
	}
}

func TestSafeExecute(t *testing.T) {
	if err := SafeExecute("ok", func() error { return nil }); err != nil {
		t.Errorf("SafeExecute() error = %v", err)
	}

	wantErr := New("fn failure")
	if err := SafeExecute("failing", func() error { return wantErr }); !Is(err, wantErr) {
		t.Errorf("SafeExecute() error = %v, want %v", err, wantErr)
	}

	err := SafeExecute("panicking", func() error { panic("boom") })
	var panicErr *PanicError
	if !As(err, &panicErr) {
		t.Errorf("SafeExecute() error = %v, want PanicError", err)
	}
}

func TestCheckNumericalStability(t *testing.T) {
	if err := CheckNumericalStability("op", []float64{0.1, 0.01, 0.001}); err != nil {
		t.Errorf("stable values must pass: %v", err)
	}

	err := CheckNumericalStability("op", []float64{0.1, math.NaN(), 0.001})
	if err == nil {
		t.Fatal("NaN must be detected")
	}
	var instability *NumericalInstabilityError
	if !As(err, &instability) {
		t.Fatalf("error = %v, want NumericalInstabilityError", err)
	}
	if instability.Op != "op" {
		t.Errorf("Op = %q, want %q", instability.Op, "op")
	}

	if err := CheckScalar("op", math.Inf(1)); err == nil {
		t.Error("Inf must be detected")
	}
}

package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"classified", New(InvalidCredential, "bad key"), InvalidCredential},
		{"wrapped classified", fmt.Errorf("transcribe: %w", New(PayloadTooLarge, "too big")), PayloadTooLarge},
		{"plain error", errors.New("boom"), KindUnknown},
		{"nil", nil, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	orig := New(NotFound, "missing")
	if got := Classify(orig, IOFailure); got != orig {
		t.Errorf("Classify() should keep classified errors, got %v", got)
	}

	plain := errors.New("disk full")
	got := Classify(plain, IOFailure)
	if KindOf(got) != IOFailure {
		t.Errorf("KindOf(Classify()) = %v, want %v", KindOf(got), IOFailure)
	}
	if !errors.Is(got, plain) {
		t.Error("Classify() should keep the original error in the chain")
	}
	if got.Error() != "disk full" {
		t.Errorf("Error() = %q, want %q", got.Error(), "disk full")
	}

	if Classify(nil, IOFailure) != nil {
		t.Error("Classify(nil) should be nil")
	}
}

func TestRejected(t *testing.T) {
	err := Rejected("Notion", 500, "internal")
	if err.Kind != RemoteRejected || err.Status != 500 || err.Body != "internal" {
		t.Errorf("Rejected() = %+v", err)
	}
	if err.Error() != "Error de Notion (500): internal" {
		t.Errorf("Error() = %q", err.Error())
	}
}

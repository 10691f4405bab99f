package pkg

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrorsDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotConnected,
		ErrBusy,
		ErrNoTransfer,
		ErrTransferActive,
		ErrConverterStopped,
		ErrInvalidInterface,
		ErrInvalidParameter,
		ErrNotConfigured,
		ErrNotSupported,
		ErrPortClosed,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("sentinel %v matches distinct sentinel %v", a, b)
			}
		}
	}
}

func TestSentinelErrorWrapping(t *testing.T) {
	wrapped := fmt.Errorf("interface 2: %w", ErrNotConnected)
	if !errors.Is(wrapped, ErrNotConnected) {
		t.Error("wrapped error does not match ErrNotConnected")
	}
	if errors.Is(wrapped, ErrBusy) {
		t.Error("wrapped error matches unrelated sentinel")
	}
}

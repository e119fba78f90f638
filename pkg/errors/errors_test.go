package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	errConflict := New(KindConflict, "duplicate")

	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"classified", errConflict, KindConflict},
		{"wrapped", fmt.Errorf("send knock: %w", errConflict), KindConflict},
		{"plain", errors.New("boom"), KindInternal},
		{"nil", nil, KindInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := KindOf(tc.err); got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestSentinelIdentity(t *testing.T) {
	a := New(KindNotFound, "room not found")
	b := New(KindNotFound, "room not found")

	if !errors.Is(fmt.Errorf("wrap: %w", a), a) {
		t.Error("wrapped sentinel should match itself")
	}
	if errors.Is(a, b) {
		t.Error("distinct sentinels with equal text must not match")
	}
}

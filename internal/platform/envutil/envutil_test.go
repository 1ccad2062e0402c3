package envutil

import (
	"testing"
	"time"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("VAK_TEST_STR", "  hello ")
	t.Setenv("VAK_TEST_INT", "12")
	t.Setenv("VAK_TEST_BAD_INT", "twelve")
	t.Setenv("VAK_TEST_BOOL", "on")
	t.Setenv("VAK_TEST_SECS", "45")
	t.Setenv("VAK_TEST_DUR", "1500ms")
	t.Setenv("VAK_TEST_BLANK", "   ")

	if got := String("VAK_TEST_STR", "x", nil); got != "hello" {
		t.Fatalf("String: want=hello got=%q", got)
	}
	if got := String("VAK_TEST_BLANK", "x", nil); got != "x" {
		t.Fatalf("String(blank): want=x got=%q", got)
	}
	if got := Int("VAK_TEST_INT", 1, nil); got != 12 {
		t.Fatalf("Int: want=12 got=%d", got)
	}
	if got := Int("VAK_TEST_BAD_INT", 7, nil); got != 7 {
		t.Fatalf("Int(bad): want=7 got=%d", got)
	}
	if got := Bool("VAK_TEST_BOOL", false, nil); !got {
		t.Fatalf("Bool: want=true")
	}
	if got := Duration("VAK_TEST_SECS", time.Second, nil); got != 45*time.Second {
		t.Fatalf("Duration(secs): want=45s got=%s", got)
	}
	if got := Duration("VAK_TEST_DUR", time.Second, nil); got != 1500*time.Millisecond {
		t.Fatalf("Duration: want=1.5s got=%s", got)
	}
	if got := Duration("VAK_TEST_MISSING", 3*time.Second, nil); got != 3*time.Second {
		t.Fatalf("Duration(missing): want=3s got=%s", got)
	}
}

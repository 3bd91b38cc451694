package instance

import "testing"

func TestIDPrefersEnv(t *testing.T) {
	t.Setenv("MODA_INSTANCE_ID", "api-3")
	if got := ID(); got != "api-3" {
		t.Fatalf("expected api-3, got %q", got)
	}
}

func TestIDFallsBack(t *testing.T) {
	t.Setenv("MODA_INSTANCE_ID", "")
	if ID() == "" {
		t.Fatalf("expected a non-empty instance id")
	}
}

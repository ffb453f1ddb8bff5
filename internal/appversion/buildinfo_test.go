package appversion_test

import (
	"testing"

	"evodash/internal/appversion"
)

func TestVersionIsSet(t *testing.T) {
	t.Parallel()

	v := appversion.String()
	if v == "" {
		t.Fatal("version.String() must not be empty")
	}
}

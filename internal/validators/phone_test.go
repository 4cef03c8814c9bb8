package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidMobile(t *testing.T) {
	valid := []string{"09123456789", "09000000000", "09999999999"}
	for _, p := range valid {
		assert.True(t, IsValidMobile(p), p)
	}

	invalid := []string{
		"",
		"0912345678",    // ten digits
		"091234567890",  // twelve digits
		"08123456789",   // wrong prefix
		"+989123456789", // international form not accepted
		"09 12345678",
		"0912345678a",
	}
	for _, p := range invalid {
		assert.False(t, IsValidMobile(p), p)
	}
}

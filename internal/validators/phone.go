package validators

import "regexp"

// Local mobile numbers: 09 followed by nine digits.
var mobilePattern = regexp.MustCompile(`^09\d{9}$`)

func IsValidMobile(phone string) bool {
	return mobilePattern.MatchString(phone)
}

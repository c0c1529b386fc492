// Package phone normalizes contact phone numbers for storage. Inputs come
// from free-text form fields, so normalization is best effort: a number we
// cannot parse or validate is stored as typed rather than rejected.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is used when the caller supplies no region hint
const DefaultRegion = "US"

// Normalize returns the E.164 form of phone when it parses as a valid number
// for the given region, and the trimmed input otherwise.
func Normalize(phone, region string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}
	if region == "" {
		region = DefaultRegion
	}

	parsed, err := phonenumbers.Parse(phone, region)
	if err != nil || !phonenumbers.IsValidNumber(parsed) {
		return phone
	}
	return phonenumbers.Format(parsed, phonenumbers.E164)
}

// Display returns the national presentation format when the number is valid,
// and the trimmed input otherwise.
func Display(phone, region string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}
	if region == "" {
		region = DefaultRegion
	}

	parsed, err := phonenumbers.Parse(phone, region)
	if err != nil || !phonenumbers.IsValidNumber(parsed) {
		return phone
	}
	return phonenumbers.Format(parsed, phonenumbers.NATIONAL)
}

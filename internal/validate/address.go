package validate

import (
	"regexp"
	"strings"
)

// AddressPart names the check an address failed.
type AddressPart int

const (
	PartStreet AddressPart = iota + 1
	PartNumber
	PartCity
)

func (p AddressPart) String() string {
	switch p {
	case PartStreet:
		return "street"
	case PartNumber:
		return "number"
	case PartCity:
		return "city"
	}
	return "unknown"
}

type AddressError struct {
	Part AddressPart
}

func (e *AddressError) Error() string {
	return "invalid address: missing " + e.Part.String()
}

var (
	reStreet = regexp.MustCompile(`(?i)\b(calle|cl|carrera|cra|kr|cr|avenida|av|ak|ac|diagonal|dg|transversal|tv|autopista)\.?\s*\d+`)
	reNumber = regexp.MustCompile(`#\s*\d+`)
	reCity   = regexp.MustCompile(`\.\s*\p{L}[\p{L} .]*$`)
)

// Address checks a Colombian-style delivery address such as
// "Calle 80 #12-34. Bogotá". Checks run street, then number, then city and
// the first failure is returned.
func Address(s string) error {
	s = strings.TrimSpace(s)
	if !reStreet.MatchString(s) {
		return &AddressError{Part: PartStreet}
	}
	if !reNumber.MatchString(s) {
		return &AddressError{Part: PartNumber}
	}
	if !reCity.MatchString(s) {
		return &AddressError{Part: PartCity}
	}
	return nil
}

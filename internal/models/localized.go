package models

import "strings"

// Localized is an English/Bangla text pair as exposed by the API.
// Storage keeps the two halves in flat *_en / *_bn columns.
type Localized struct {
	En string `json:"en"`
	Bn string `json:"bn"`
}

// Trimmed returns the pair with surrounding whitespace removed.
func (l Localized) Trimmed() Localized {
	return Localized{En: strings.TrimSpace(l.En), Bn: strings.TrimSpace(l.Bn)}
}

// IsZero reports whether both halves are empty.
func (l Localized) IsZero() bool {
	return l.En == "" && l.Bn == ""
}

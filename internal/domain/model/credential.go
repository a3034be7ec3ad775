package model

import "time"

// Credential holds a secret stored for an external service, such as the
// bearer token used against the certificates backend.
type Credential struct {
	ID        int64
	Service   string
	Value     string
	UpdatedAt time.Time
}

// MaskedValue returns the credential with all but its last four characters hidden.
func (c Credential) MaskedValue() string {
	return MaskSecret(c.Value)
}

// MaskSecret hides all but the last four characters of s.
func MaskSecret(s string) string {
	const visible = 4
	runes := []rune(s)
	if len(runes) <= visible {
		return "****"
	}
	return "****" + string(runes[len(runes)-visible:])
}

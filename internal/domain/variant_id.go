package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// VariantID is the canonical identifier of a product variant.
//
// Storefront webhooks are inconsistent about the wire type: some send the
// variant id as a JSON number, others as a string. VariantID normalizes both
// to the same decimal string at the unmarshal boundary, so that a request
// registered with "12345" matches an event carrying 12345. Comparisons are
// always exact string comparisons after normalization.
type VariantID string

// UnmarshalJSON accepts a JSON string, number, or null. Numbers are kept in
// their literal decimal form (json.Number, no float round-trip). Null and the
// empty string decode to the zero value.
func (v *VariantID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*v = ""
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = VariantID(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("variant id must be a string or number: %w", err)
	}
	*v = VariantID(n.String())
	return nil
}

// String returns the canonical form.
func (v VariantID) String() string { return string(v) }

// IsZero reports whether no variant id was supplied.
func (v VariantID) IsZero() bool { return v == "" }

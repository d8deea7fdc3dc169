// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package uuid

import "github.com/google/uuid"

// MustNewUUID returns a new random UUID as its canonical string form.
// All automation identifiers (sequences, steps, instances, actions) are
// stored and transported as strings.
func MustNewUUID() string {
	return uuid.NewString()
}

// MustParseUUID validates the string form, panics on malformed input
func MustParseUUID(s string) string {
	return uuid.MustParse(s).String()
}

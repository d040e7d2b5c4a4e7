package domain

import (
	"encoding/hex"
	"strings"
	"unicode"

	"golang.org/x/crypto/sha3"

	dErrors "sybilguard/pkg/domain-errors"
)

// maxIdentityIDLength bounds opaque identifiers accepted at trust boundaries.
const maxIdentityIDLength = 128

// IdentityID identifies a platform identity. Wallet-shaped identifiers are kept
// in lowercase canonical form so the same account never appears twice.
type IdentityID string

// ParseIdentityID validates and normalizes an identity identifier.
//
// EVM addresses (0x + 40 hex digits) are lowercased; mixed-case input must carry
// a valid EIP-55 checksum. Anything else is treated as an opaque identifier and
// must be printable, free of whitespace and at most 128 bytes.
func ParseIdentityID(s string) (IdentityID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "identity id is required")
	}
	if len(s) > maxIdentityIDLength {
		return "", dErrors.New(dErrors.CodeInvalidInput, "identity id is too long")
	}
	for _, r := range s {
		if unicode.IsSpace(r) || !unicode.IsPrint(r) || r == unicode.ReplacementChar {
			return "", dErrors.New(dErrors.CodeInvalidInput, "identity id contains invalid characters")
		}
	}

	if isAddressShaped(s) {
		if isMixedCase(s[2:]) && checksumAddress(s) != s {
			return "", dErrors.New(dErrors.CodeInvalidInput, "address checksum mismatch")
		}
		return IdentityID(strings.ToLower(s)), nil
	}

	return IdentityID(s), nil
}

// String returns the canonical identifier.
func (id IdentityID) String() string {
	return string(id)
}

// IsNil returns true if the identifier is empty.
func (id IdentityID) IsNil() bool {
	return id == ""
}

// IsAddress reports whether the identifier is an EVM-style address.
func (id IdentityID) IsAddress() bool {
	return isAddressShaped(string(id))
}

// Checksummed returns the EIP-55 form of an address identifier, or the
// identifier unchanged when it is not address-shaped.
func (id IdentityID) Checksummed() string {
	if !id.IsAddress() {
		return string(id)
	}
	return checksumAddress(string(id))
}

func isAddressShaped(s string) bool {
	if len(s) != 42 || (s[:2] != "0x" && s[:2] != "0X") {
		return false
	}
	_, err := hex.DecodeString(s[2:])
	return err == nil
}

func isMixedCase(s string) bool {
	return strings.ToLower(s) != s && strings.ToUpper(s) != s
}

func checksumAddress(s string) string {
	lower := strings.ToLower(s[2:])
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(lower))
	digest := h.Sum(nil)

	out := []byte(lower)
	for i, c := range out {
		if c < 'a' || c > 'f' {
			continue
		}
		nibble := digest[i/2]
		if i%2 == 0 {
			nibble >>= 4
		} else {
			nibble &= 0x0f
		}
		if nibble >= 8 {
			out[i] = c - 'a' + 'A'
		}
	}
	return "0x" + string(out)
}

package domain

import (
	"net/url"
	"regexp"
	"strings"
)

// VirtualPrefix is reserved for identities of synthesized plans
const VirtualPrefix = "codex-plan-"

var identityPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+\.md$`)

// ValidateIdentity checks that identity is a safe plan file base name.
// Percent-encoded input is decoded before checking so encoded traversal
// sequences are reported as such.
func ValidateIdentity(identity string) error {
	if identity == "" {
		return &IdentityError{Err: ErrInvalidIdentity, Identity: identity, Reason: "empty"}
	}

	decoded := identity
	for range 4 {
		next, err := url.PathUnescape(decoded)
		if err != nil {
			return &IdentityError{Err: ErrInvalidIdentity, Identity: identity, Reason: "malformed escape"}
		}
		if next == decoded {
			break
		}
		decoded = next
	}

	if strings.Contains(decoded, "..") || strings.ContainsAny(decoded, `/\`) {
		return &IdentityError{Err: ErrInvalidIdentity, Identity: identity, Reason: "path traversal"}
	}
	if decoded != identity {
		return &IdentityError{Err: ErrInvalidIdentity, Identity: identity, Reason: "encoded characters"}
	}
	if !identityPattern.MatchString(identity) {
		return &IdentityError{Err: ErrInvalidIdentity, Identity: identity, Reason: "must match [a-zA-Z0-9_-]+.md"}
	}
	return nil
}

// ValidateNewIdentity is ValidateIdentity plus the reserved virtual namespace
// check, used for names a user is about to create
func ValidateNewIdentity(identity string) error {
	if err := ValidateIdentity(identity); err != nil {
		return err
	}
	if IsVirtualIdentity(identity) {
		return &IdentityError{Err: ErrInvalidIdentity, Identity: identity, Reason: "reserved prefix " + VirtualPrefix}
	}
	return nil
}

// IsVirtualIdentity reports whether identity belongs to the synthesized namespace
func IsVirtualIdentity(identity string) bool {
	return strings.HasPrefix(identity, VirtualPrefix)
}

// NormalizeIdentity appends the .md extension when missing
func NormalizeIdentity(name string) string {
	name = strings.TrimSpace(name)
	if name != "" && !strings.HasSuffix(name, ".md") {
		return name + ".md"
	}
	return name
}

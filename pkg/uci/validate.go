package uci

import "fmt"

// djbSeed is the initial hash value for the section content hash, per the
// historical "djb" string hash published by D. J. Bernstein.
const djbSeed uint32 = 5381

// ValidateName reports whether s is usable as a package, section, option
// or type name: non-empty and composed only of ASCII alphanumerics and
// '_'. Shell-compatible by design.
func ValidateName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !isAlnum(c) && c != '_' {
			return false
		}
	}
	return true
}

// ValidateType is an alias of ValidateName. The historical implementation
// exposed a separate, looser predicate for types; the two are unified
// here since nothing in this design distinguishes them.
var ValidateType = ValidateName

// ValidateText reports whether s is usable as an option value or list
// item: every byte is either TAB or printable (>= 0x20) and not CR/LF.
func ValidateText(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\r' || c == '\n' {
			return false
		}
		if c < 0x20 && c != '\t' {
			return false
		}
	}
	return true
}

func isAlnum(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// djbHash folds s into seed using the DJB hash, masked to 31 bits.
func djbHash(seed uint32, s string) uint32 {
	h := seed
	for i := 0; i < len(s); i++ {
		h = ((h << 5) + h) + uint32(s[i])
	}
	return h & 0x7fffffff
}

// hashSection computes the content hash of s: the section type, then
// each option's (name, scalar-value) pair in file order. List options
// contribute only their name, matching the historical implementation so
// that appending list items never perturbs an unrelated anonymous name.
func hashSection(s *Section) uint32 {
	h := djbHash(djbSeed, s.Type)
	for _, o := range s.Options {
		h = djbHash(h, o.Name)
		if o.Kind == ScalarOption {
			h = djbHash(h, o.Value)
		}
	}
	return h
}

// anonymousName formats the generated name of an anonymous section. The
// counter is a per-package, pre-incremented ordinal; the hash is the
// low 16 bits of the section's content hash.
func anonymousName(counter uint32, hash uint32) string {
	return fmt.Sprintf("cfg%02x%04x", counter, hash&0xffff)
}

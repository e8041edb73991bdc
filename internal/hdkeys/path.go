package hdkeys

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePath parses a derivation path spec like "m/44'/111111'/0'/0/5"
// into its component indices. An apostrophe or trailing "h"/"H" marks
// a hardened component. The leading "m" (or "M") is required.
func ParsePath(path string) ([]uint32, error) {
	parts := strings.Split(path, "/")
	if parts[0] != "m" && parts[0] != "M" {
		return nil, fmt.Errorf("derivation path must start with \"m\": %q", path)
	}

	indices := make([]uint32, 0, len(parts)-1)
	for _, part := range parts[1:] {
		if part == "" {
			return nil, fmt.Errorf("empty component in derivation path %q", path)
		}

		hardened := false
		switch part[len(part)-1] {
		case '\'', 'h', 'H':
			hardened = true
			part = part[:len(part)-1]
		}

		n, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid path component %q: %w", part, err)
		}
		if n >= uint64(HardenedOffset) {
			return nil, fmt.Errorf("path component %d out of range", n)
		}

		index := uint32(n)
		if hardened {
			index = Hardened(index)
		}
		indices = append(indices, index)
	}
	return indices, nil
}

// FormatPath renders indices as a path spec string, using the
// apostrophe convention for hardened components.
func FormatPath(indices []uint32) string {
	var sb strings.Builder
	sb.WriteByte('m')
	for _, index := range indices {
		sb.WriteByte('/')
		if index >= HardenedOffset {
			sb.WriteString(strconv.FormatUint(uint64(index-HardenedOffset), 10))
			sb.WriteByte('\'')
		} else {
			sb.WriteString(strconv.FormatUint(uint64(index), 10))
		}
	}
	return sb.String()
}

// DerivePath parses a path spec and derives along it.
func (k *ExtendedKey) DerivePath(path string) (*ExtendedKey, error) {
	indices, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	return k.Derive(indices...)
}

package types

import (
	"fmt"
	"strings"
)

// Charset used for the 5-bit address encoding (shared with BIP-173).
const addrCharset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

// addrCharsetRev maps charset characters to their 5-bit values. -1 = invalid.
var addrCharsetRev [128]int8

func init() {
	for i := range addrCharsetRev {
		addrCharsetRev[i] = -1
	}
	for i, c := range addrCharset {
		addrCharsetRev[c] = int8(i)
	}
}

// checksumLen is the number of 5-bit checksum groups (40 bits total).
const checksumLen = 8

// cashaddrEncode encodes an address prefix and payload bytes (version
// byte plus key material) into the canonical "prefix:data" text form.
func cashaddrEncode(prefix string, payload []byte) (string, error) {
	if len(prefix) == 0 {
		return "", fmt.Errorf("address: empty prefix")
	}
	for _, c := range prefix {
		if c < 'a' || c > 'z' {
			return "", fmt.Errorf("address: invalid prefix character %q", c)
		}
	}

	// Convert 8-bit payload to 5-bit groups.
	conv, err := convertBits(payload, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("address: convert bits: %w", err)
	}

	// Compute the 40-bit checksum over prefix and payload.
	chk := cashaddrCreateChecksum(prefix, conv)

	// Build result: prefix + ":" + data + checksum
	var sb strings.Builder
	sb.Grow(len(prefix) + 1 + len(conv) + checksumLen)
	sb.WriteString(prefix)
	sb.WriteByte(':')
	for _, b := range conv {
		sb.WriteByte(addrCharset[b])
	}
	for _, b := range chk {
		sb.WriteByte(addrCharset[b])
	}
	return sb.String(), nil
}

// cashaddrDecode decodes an address string into its prefix and payload bytes.
func cashaddrDecode(s string) (string, []byte, error) {
	if len(s) == 0 {
		return "", nil, fmt.Errorf("address: empty string")
	}

	// Reject mixed case.
	hasUpper := false
	hasLower := false
	for _, c := range s {
		if c >= 'A' && c <= 'Z' {
			hasUpper = true
		}
		if c >= 'a' && c <= 'z' {
			hasLower = true
		}
	}
	if hasUpper && hasLower {
		return "", nil, fmt.Errorf("address: mixed case")
	}

	// Work in lowercase.
	s = strings.ToLower(s)

	// Find the ':' separator.
	sepIdx := strings.LastIndex(s, ":")
	if sepIdx < 1 {
		return "", nil, fmt.Errorf("address: missing prefix separator")
	}
	if sepIdx+1+checksumLen >= len(s) {
		return "", nil, fmt.Errorf("address: too short")
	}

	prefix := s[:sepIdx]
	dataStr := s[sepIdx+1:]

	// Decode data characters.
	data5 := make([]byte, len(dataStr))
	for i, c := range dataStr {
		if c > 127 {
			return "", nil, fmt.Errorf("address: invalid character %q", c)
		}
		val := addrCharsetRev[c]
		if val < 0 {
			return "", nil, fmt.Errorf("address: invalid character %q", c)
		}
		data5[i] = byte(val)
	}

	// Verify checksum (last 8 characters).
	if !cashaddrVerifyChecksum(prefix, data5) {
		return "", nil, fmt.Errorf("address: invalid checksum")
	}

	// Strip checksum from data.
	data5 = data5[:len(data5)-checksumLen]

	// Convert 5-bit groups back to 8-bit.
	payload, err := convertBits(data5, 5, 8, false)
	if err != nil {
		return "", nil, fmt.Errorf("address: convert bits: %w", err)
	}

	return prefix, payload, nil
}

// cashaddrPolymod computes the 40-bit BCH checksum polynomial.
func cashaddrPolymod(values []byte) uint64 {
	gen := [5]uint64{0x98f2bc8e61, 0x79b76d99e2, 0xf33e5fb3c4, 0xae2eabe2a8, 0x1e4f43e470}
	chk := uint64(1)
	for _, v := range values {
		top := chk >> 35
		chk = (chk&0x07ffffffff)<<5 ^ uint64(v)
		for i := 0; i < 5; i++ {
			if (top>>uint(i))&1 == 1 {
				chk ^= gen[i]
			}
		}
	}
	return chk
}

// cashaddrPrefixExpand expands the prefix for checksum computation:
// the low 5 bits of each character, followed by a zero separator.
func cashaddrPrefixExpand(prefix string) []byte {
	ret := make([]byte, 0, len(prefix)+1)
	for _, c := range prefix {
		ret = append(ret, byte(c)&31)
	}
	ret = append(ret, 0)
	return ret
}

// cashaddrCreateChecksum creates the 8-group checksum for prefix and data.
func cashaddrCreateChecksum(prefix string, data []byte) []byte {
	values := append(cashaddrPrefixExpand(prefix), data...)
	values = append(values, 0, 0, 0, 0, 0, 0, 0, 0)
	polymod := cashaddrPolymod(values) ^ 1
	ret := make([]byte, checksumLen)
	for i := 0; i < checksumLen; i++ {
		ret[i] = byte((polymod >> uint(5*(checksumLen-1-i))) & 31)
	}
	return ret
}

// cashaddrVerifyChecksum verifies the checksum of prefix and data
// (data includes the trailing checksum groups).
func cashaddrVerifyChecksum(prefix string, data []byte) bool {
	return cashaddrPolymod(append(cashaddrPrefixExpand(prefix), data...)) == 1
}

// convertBits converts between bit groups.
// fromBits/toBits are the source/destination group sizes (e.g. 8 and 5).
// pad controls whether incomplete groups are zero-padded.
func convertBits(data []byte, fromBits, toBits uint, pad bool) ([]byte, error) {
	acc := uint32(0)
	bits := uint(0)
	maxv := uint32((1 << toBits) - 1)
	var ret []byte

	for _, b := range data {
		if uint32(b)>>fromBits != 0 {
			return nil, fmt.Errorf("invalid data byte: %d", b)
		}
		acc = acc<<fromBits | uint32(b)
		bits += fromBits
		for bits >= toBits {
			bits -= toBits
			ret = append(ret, byte((acc>>bits)&maxv))
		}
	}

	if pad {
		if bits > 0 {
			ret = append(ret, byte((acc<<(toBits-bits))&maxv))
		}
	} else {
		if bits >= fromBits {
			return nil, fmt.Errorf("non-zero padding")
		}
		if (acc<<(toBits-bits))&maxv != 0 {
			return nil, fmt.Errorf("non-zero padding")
		}
	}

	return ret, nil
}

package hdkeys

import "errors"

// Decode and derivation failures callers are expected to branch on.
// All are fatal to the request, never retried internally: inputs are
// deterministic, so retrying reproduces the same failure.
var (
	// ErrFormat means the serialized key is not valid base58check
	// (bad alphabet or checksum mismatch).
	ErrFormat = errors.New("malformed extended key")

	// ErrVersion means the version bytes name a network this build
	// does not support.
	ErrVersion = errors.New("unsupported extended key version")

	// ErrLength means the decoded payload is not exactly 78 bytes.
	ErrLength = errors.New("invalid extended key length")

	// ErrInvalidKey means the decoded key material is out of range:
	// a private scalar that is zero or >= the curve order, or public
	// key bytes that are not a valid curve point.
	ErrInvalidKey = errors.New("invalid extended key material")

	// ErrInvalidChildKey means derivation at the requested index
	// produced an out-of-range scalar or the point at infinity.
	// Probability ~2^-127; the caller must pick a different index.
	ErrInvalidChildKey = errors.New("derived child key is invalid")

	// ErrHardenedFromPublic means hardened derivation was requested
	// on a public-only key, which is impossible by construction.
	ErrHardenedFromPublic = errors.New("hardened derivation from public-only key")

	// ErrRangeTooLarge means a range request exceeded MaxRangeCount.
	ErrRangeTooLarge = errors.New("derivation range too large")
)

package hdkeys

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"runtime"
	"sync"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/hashdag-labs/walletcore/internal/log"
)

// MaxRangeCount bounds a single DeriveRange request.
const MaxRangeCount = 10000

// parallelThreshold is the range size above which DeriveRange fans out
// across goroutines. Small ranges are cheaper to derive inline.
const parallelThreshold = 64

// maxDepth is the largest representable derivation depth.
const maxDepth = 255

// Child derives the child key at the given index. Indices >=
// HardenedOffset derive hardened children, which requires private key
// material: a public-only parent fails with ErrHardenedFromPublic.
//
// Derivation is deterministic. For ~2^-127 of indices the derived
// scalar is out of range and Child fails with ErrInvalidChildKey; the
// caller must skip that index, retrying cannot help.
func (k *ExtendedKey) Child(index uint32) (*ExtendedKey, error) {
	if k.depth == maxDepth {
		return nil, fmt.Errorf("derive child %d: depth %d exceeded", index, maxDepth)
	}

	hardened := index >= HardenedOffset
	if hardened && !k.isPrivate {
		return nil, fmt.Errorf("derive child %d: %w", index, ErrHardenedFromPublic)
	}

	// Hardened: HMAC over 0x00 || scalar || index.
	// Normal: HMAC over compressed public key || index.
	msg := make([]byte, 0, keyDataLen+4)
	if hardened {
		msg = append(msg, k.keyData[:]...)
	} else {
		msg = append(msg, k.PublicKeyBytes()...)
	}
	msg = binary.BigEndian.AppendUint32(msg, index)

	il, ir := hmacSha512Split(k.chainCode[:], msg)

	var tweak secp256k1.ModNScalar
	if overflow := tweak.SetByteSlice(il); overflow {
		return nil, fmt.Errorf("derive child %d: %w", index, ErrInvalidChildKey)
	}

	child := &ExtendedKey{
		params:            k.params,
		isPrivate:         k.isPrivate,
		depth:             k.depth + 1,
		parentFingerprint: k.Fingerprint(),
		childIndex:        index,
	}
	copy(child.chainCode[:], ir)

	if k.isPrivate {
		// child = (parent + tweak) mod n
		var parent secp256k1.ModNScalar
		parent.SetByteSlice(k.keyData[1:])
		tweak.Add(&parent)
		if tweak.IsZero() {
			return nil, fmt.Errorf("derive child %d: %w", index, ErrInvalidChildKey)
		}
		b := tweak.Bytes()
		copy(child.keyData[1:], b[:])
		tweak.Zero()
		parent.Zero()
		return child, nil
	}

	// child = parent + tweak*G
	parentPub, err := secp256k1.ParsePubKey(k.keyData[:])
	if err != nil {
		return nil, fmt.Errorf("derive child %d: %w: %v", index, ErrInvalidKey, err)
	}
	var tweakPoint, parentPoint, sum secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&tweak, &tweakPoint)
	parentPub.AsJacobian(&parentPoint)
	secp256k1.AddNonConst(&tweakPoint, &parentPoint, &sum)
	if (sum.X.IsZero() && sum.Y.IsZero()) || sum.Z.IsZero() {
		// Point at infinity.
		return nil, fmt.Errorf("derive child %d: %w", index, ErrInvalidChildKey)
	}
	sum.ToAffine()
	childPub := secp256k1.NewPublicKey(&sum.X, &sum.Y)
	copy(child.keyData[:], childPub.SerializeCompressed())
	return child, nil
}

// Derive applies Child along a path of indices.
func (k *ExtendedKey) Derive(path ...uint32) (*ExtendedKey, error) {
	current := k
	for _, index := range path {
		child, err := current.Child(index)
		if err != nil {
			return nil, err
		}
		current = child
	}
	return current, nil
}

// DeriveRange derives the children of parent at indices
// [start, start+count), in index order. count is bounded by
// MaxRangeCount and the range must not wrap around uint32.
//
// Every element depends only on the parent, so large ranges are
// derived in parallel; the returned slice is always ordered by index.
func DeriveRange(parent *ExtendedKey, start, count uint32) ([]*ExtendedKey, error) {
	if count > MaxRangeCount {
		return nil, fmt.Errorf("%w: count %d exceeds %d", ErrRangeTooLarge, count, MaxRangeCount)
	}
	if uint64(start)+uint64(count) > 1<<32 {
		return nil, fmt.Errorf("derive range: start %d + count %d overflows", start, count)
	}
	keys := make([]*ExtendedKey, count)
	if count == 0 {
		return keys, nil
	}

	if count < parallelThreshold {
		for i := uint32(0); i < count; i++ {
			child, err := parent.Child(start + i)
			if err != nil {
				return nil, err
			}
			keys[i] = child
		}
		return keys, nil
	}

	// Warm the parent public key cache: every non-hardened child
	// message needs it, and deriving it once is enough.
	parent.PublicKeyBytes()

	workers := runtime.NumCPU()
	if workers > int(count) {
		workers = int(count)
	}
	log.Keys.Debug().
		Uint32("start", start).
		Uint32("count", count).
		Int("workers", workers).
		Msg("parallel range derivation")

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	next := make(chan uint32, workers)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for offset := range next {
				child, err := parent.Child(start + offset)
				if err != nil {
					errOnce.Do(func() { firstErr = err })
					continue
				}
				keys[offset] = child
			}
		}()
	}
	for i := uint32(0); i < count; i++ {
		next <- i
	}
	close(next)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return keys, nil
}

// hmacSha512Split computes HMAC-SHA512(key, msg) and splits the digest
// into its 32-byte halves.
func hmacSha512Split(key, msg []byte) (il, ir []byte) {
	mac := hmac.New(sha512.New, key)
	mac.Write(msg)
	sum := mac.Sum(nil)
	return sum[:32], sum[32:]
}

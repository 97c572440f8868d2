// Package rng provides the abstract byte-source RNG contract the
// selection engine's ordering disciplines depend on. Implementations
// must consume exactly the number of bytes requested so that tests can
// assert deterministic replay.
package rng

import (
	"crypto/rand"
	"fmt"
	"math/bits"
	mrand "math/rand/v2"
)

// Source fills a byte slice with random data. Implementations must
// never read more or fewer bytes than requested.
type Source interface {
	Fill(n int) ([]byte, error)
}

// BytesForLength returns the number of bytes needed to choose an index
// in [0, length) via rejection-free reading: ceil(ceil(log2(length)) / 8),
// with a minimum of 1 byte for any non-trivial length.
func BytesForLength(length int) int {
	if length <= 1 {
		return 1
	}
	bitsNeeded := bits.Len(uint(length - 1))
	return (bitsNeeded + 7) / 8
}

// CryptoSource draws bytes from crypto/rand, the same source used
// elsewhere in this codebase for generating unpredictable identifiers.
type CryptoSource struct{}

func (CryptoSource) Fill(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("rng: crypto source: %w", err)
	}
	return buf, nil
}

// MathSource draws bytes from a math/rand/v2 generator. Grounded on
// internal/piece/strategy.go's use of math/rand/v2 for selectRandom.
type MathSource struct {
	rnd *mrand.Rand
}

// NewMathSource returns a MathSource seeded from two uint64 seed words.
func NewMathSource(seed1, seed2 uint64) *MathSource {
	return &MathSource{rnd: mrand.New(mrand.NewPCG(seed1, seed2))}
}

func (s *MathSource) Fill(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := s.rnd.Read(buf); err != nil {
		return nil, fmt.Errorf("rng: math source: %w", err)
	}
	return buf, nil
}

// ScriptedSource replays a fixed sequence of byte chunks, one per Fill
// call, for deterministic property and replay tests. Calling Fill more
// times than there are scripted chunks returns an error.
type ScriptedSource struct {
	chunks [][]byte
	pos    int
}

// NewScriptedSource builds a ScriptedSource that returns each chunk in
// order on successive Fill calls.
func NewScriptedSource(chunks ...[]byte) *ScriptedSource {
	return &ScriptedSource{chunks: chunks}
}

func (s *ScriptedSource) Fill(n int) ([]byte, error) {
	if s.pos >= len(s.chunks) {
		return nil, fmt.Errorf("rng: scripted source exhausted after %d draws", s.pos)
	}
	chunk := s.chunks[s.pos]
	s.pos++
	if len(chunk) != n {
		return nil, fmt.Errorf("rng: scripted source: draw %d wanted %d bytes, chunk has %d", s.pos-1, n, len(chunk))
	}
	out := make([]byte, n)
	copy(out, chunk)
	return out, nil
}

// Uint64From reads b as a big-endian unsigned integer (only the last 8
// bytes count if b is longer). It draws nothing itself; ordering
// disciplines use it to turn bytes already drawn into a bounded index.
func Uint64From(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}

// IndexIn draws from src the exact number of bytes needed to choose an
// index in [0, length) and returns that index via modulo reduction on
// the drawn bytes (biased only within the granularity the original
// design tolerates -- the important guarantee is exact byte consumption,
// not bias-freedom).
func IndexIn(src Source, length int) (int, error) {
	if length <= 0 {
		return 0, fmt.Errorf("rng: IndexIn: non-positive length %d", length)
	}
	n := BytesForLength(length)
	b, err := src.Fill(n)
	if err != nil {
		return 0, err
	}
	return int(Uint64From(b) % uint64(length)), nil
}

package hashing

import (
	"github.com/lgbarn/xiangqi-manual-go/internal/engine"
	"github.com/lgbarn/xiangqi-manual-go/internal/xiangqi"
)

// zobristKeys holds one random key per colour, kind and seat.
var zobristKeys [2][xiangqi.NumKinds][xiangqi.NumSeats]uint64

func init() {
	state := uint64(0x9E3779B97F4A7C15)
	for c := range zobristKeys {
		for k := range zobristKeys[c] {
			for s := range zobristKeys[c][k] {
				zobristKeys[c][k][s] = splitMix64(&state)
			}
		}
	}
}

// splitMix64 is a small deterministic generator, so hashes are stable
// across runs.
func splitMix64(state *uint64) uint64 {
	*state += 0x9E3779B97F4A7C15
	z := *state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// GenerateZobristHash hashes the piece placement of b.
func GenerateZobristHash(b *engine.Board) uint64 {
	var hash uint64
	chars := b.PieceChars()
	for seat := 0; seat < len(chars); seat++ {
		p, ok := xiangqi.PieceFromChar(chars[seat])
		if !ok {
			continue
		}
		hash ^= zobristKeys[p.Color][p.Kind][seat]
	}
	return hash
}

// WeakHash is a cheap second hash of the placement used to confirm a
// Zobrist match.
func WeakHash(b *engine.Board) uint32 {
	var hash uint32
	chars := b.PieceChars()
	for seat := 0; seat < len(chars); seat++ {
		if chars[seat] != xiangqi.EmptyChar {
			hash = hash*31 + uint32(chars[seat])*uint32(seat+1)
		}
	}
	return hash
}

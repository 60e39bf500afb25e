package entity

import "sync/atomic"

// VectorPools are the bounded free-lists for the two hot allocation shapes
// in clone detection: shingle-string slices and u64 signature slices (spec
// §5 "Memory pools"). Per spec §9, pooling is an optimization seam, not a
// correctness requirement — signature generation must be deterministic and
// linear in total shingle count whether or not pooling is enabled, so a
// plain bounded channel free-list is sufficient; no third-party pooling
// library in the pack targets this narrow a need.
type VectorPools struct {
	shingleFree chan []string
	sigFree     chan []uint64

	shingleHits, shingleMisses atomic.Int64
	sigHits, sigMisses         atomic.Int64
}

// DefaultPoolSize is the default bounded free-list capacity (spec §5:
// "default 50 vectors each").
const DefaultPoolSize = 50

// NewVectorPools creates pools with the default capacity.
func NewVectorPools() *VectorPools {
	return NewVectorPoolsWithSize(DefaultPoolSize)
}

// NewVectorPoolsWithSize creates pools with an explicit free-list capacity.
func NewVectorPoolsWithSize(size int) *VectorPools {
	return &VectorPools{
		shingleFree: make(chan []string, size),
		sigFree:     make(chan []uint64, size),
	}
}

// GetShingleBuf returns a []string of length 0: a pooled buffer when one is
// free (whatever its capacity), otherwise a new one with capacity capHint.
func (p *VectorPools) GetShingleBuf(capHint int) []string {
	select {
	case buf := <-p.shingleFree:
		p.shingleHits.Add(1)
		return buf[:0]
	default:
		p.shingleMisses.Add(1)
		return make([]string, 0, capHint)
	}
}

// PutShingleBuf returns a buffer to the pool; dropped if the pool is full.
func (p *VectorPools) PutShingleBuf(buf []string) {
	select {
	case p.shingleFree <- buf:
	default:
	}
}

// GetSigBuf returns a reusable []uint64 of exactly length n.
func (p *VectorPools) GetSigBuf(n int) []uint64 {
	select {
	case buf := <-p.sigFree:
		p.sigHits.Add(1)
		if cap(buf) >= n {
			return buf[:n]
		}
		return make([]uint64, n)
	default:
		p.sigMisses.Add(1)
		return make([]uint64, n)
	}
}

// PutSigBuf returns a signature buffer to the pool; dropped if full.
func (p *VectorPools) PutSigBuf(buf []uint64) {
	select {
	case p.sigFree <- buf:
	default:
	}
}

// PoolStats reports hit/miss counters for observability (spec §5).
type PoolStats struct {
	ShingleHits, ShingleMisses int64
	SigHits, SigMisses         int64
}

// Stats snapshots the current hit/miss counters.
func (p *VectorPools) Stats() PoolStats {
	return PoolStats{
		ShingleHits:   p.shingleHits.Load(),
		ShingleMisses: p.shingleMisses.Load(),
		SigHits:       p.sigHits.Load(),
		SigMisses:     p.sigMisses.Load(),
	}
}

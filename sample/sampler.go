// Package sample provides the randomness capability consumed by the consensus engine.
//
// A Sampler draws distinct indices uniformly at random. Samplers are not safe
// for concurrent use: the engine gives every worker its own instance, usually
// an independent PCG stream derived from one master seed.
package sample

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/sampleuv"
)

// Sampler draws indices without replacement.
type Sampler interface {
	// Sample fills dst with len(dst) distinct indices drawn uniformly from [0, n).
	// Callers guarantee len(dst) <= n.
	Sample(dst []int, n int)
}

// Factory creates the sampler owned by one worker.
type Factory func(worker int) Sampler

// Uniform is a Sampler backed by a math/rand/v2 source.
type Uniform struct {
	src rand.Source
}

// NewUniform returns a sampler that draws from src.
func NewUniform(src rand.Source) *Uniform {
	return &Uniform{src: src}
}

// NewPCG returns a sampler on the PCG stream identified by (seed, stream).
// Different streams of the same seed are independent.
func NewPCG(seed, stream uint64) *Uniform {
	return NewUniform(rand.NewPCG(seed, stream))
}

// Sample implements Sampler.
func (u *Uniform) Sample(dst []int, n int) {
	sampleuv.WithoutReplacement(dst, n, u.src)
}

// PCGFactory returns a Factory handing worker w the PCG stream (seed, w).
func PCGFactory(seed uint64) Factory {
	return func(worker int) Sampler {
		return NewPCG(seed, uint64(worker))
	}
}

// Shuffle permutes idx in place (Fisher-Yates) using only the Sampler capability.
func Shuffle(s Sampler, idx []int) {
	var one [1]int
	for i := len(idx) - 1; i > 0; i-- {
		s.Sample(one[:], i+1)
		j := one[0]
		idx[i], idx[j] = idx[j], idx[i]
	}
}

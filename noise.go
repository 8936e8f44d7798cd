package reactor

import "math/rand/v2"

// NoiseAmplitude bounds the random temperature fluctuation per tick.
const NoiseAmplitude = 2.5

// NoiseSource supplies the random temperature fluctuation for each tick.
type NoiseSource interface {
	Sample() float64
}

// UniformNoise draws fluctuations uniformly from [-NoiseAmplitude, NoiseAmplitude).
type UniformNoise struct {
	r *rand.Rand
}

// NewUniformNoise returns a noise source seeded for reproducible trajectories.
func NewUniformNoise(seed uint64) *UniformNoise {
	return &UniformNoise{r: rand.New(rand.NewPCG(seed, 0))}
}

// NewUniformNoiseFrom wraps an existing generator.
func NewUniformNoiseFrom(r *rand.Rand) *UniformNoise {
	return &UniformNoise{r: r}
}

func (u *UniformNoise) Sample() float64 {
	return (u.r.Float64() - 0.5) * 2 * NoiseAmplitude
}

// FixedNoise returns the same fluctuation every tick.
type FixedNoise float64

func (f FixedNoise) Sample() float64 {
	return float64(f)
}

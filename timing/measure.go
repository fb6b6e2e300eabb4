// Package timing detects timing leaks empirically, in the manner of dudect.
//
// Each target runs on two classes of inputs: a fixed input, and inputs drawn
// from a deterministic random stream. Execution times of both classes are
// compared with Welch's t-test; a large |t| means the timing distribution
// depends on the input.
//
// A passing result is evidence, not proof. It should be paired with
// disassembly inspection (see package ctasm).
package timing

import (
	"crypto/subtle"
	"math"
	"time"

	"git.gammaspectra.live/P2Pool/subtle/types"
	"git.gammaspectra.live/P2Pool/subtle/utils"
	"golang.org/x/crypto/sha3"
)

type Target struct {
	Name      string
	InputSize int
	// Fixed input for class 0, of InputSize bytes
	Fixed []byte
	Run   func(in []byte) uint8
}

type Config struct {
	Measurements int
	// Inner calls of Target.Run per measurement
	Inner     int
	Threshold float64
	// CropPercentile measurements above this fraction are dropped for the cropped statistic
	CropPercentile float64
	Seed           types.Hash
}

// DefaultConfig |t| above 10 is dudect's "definitely not constant time" bound
func DefaultConfig() Config {
	return Config{
		Measurements:   100_000,
		Inner:          64,
		Threshold:      10,
		CropPercentile: 0.9,
	}
}

type Result struct {
	Name         string     `json:"name"`
	Measurements int        `json:"measurements"`
	Mean         [2]float64 `json:"mean_ns"`
	T            float64    `json:"t"`
	CroppedT     float64    `json:"cropped_t"`
	Leak         bool       `json:"leak"`
}

var sink uint8

// inputStream SHAKE128 keyed by seed and target name, so every target sees an independent reproducible stream
func inputStream(seed types.Hash, name string) sha3.ShakeHash {
	shake := sha3.NewShake128()
	_, _ = shake.Write(seed[:])
	_, _ = shake.Write([]byte(name))
	return shake
}

// prepare returns per-measurement classes and the flat input buffer
func prepare(cfg Config, target Target) (classes []uint8, inputs []byte) {
	stream := inputStream(cfg.Seed, target.Name)

	classes = make([]uint8, cfg.Measurements)
	inputs = make([]byte, cfg.Measurements*target.InputSize)
	_, _ = stream.Read(classes)

	for i := range classes {
		classes[i] &= 1
		in := inputs[i*target.InputSize : (i+1)*target.InputSize]
		if classes[i] == 0 {
			copy(in, target.Fixed)
		} else {
			_, _ = stream.Read(in)
		}
	}
	return classes, inputs
}

// Measure runs target under cfg and computes the t statistics of class 0 against class 1.
func Measure(cfg Config, target Target) Result {
	if len(target.Fixed) != target.InputSize {
		utils.Panicf("timing: target %s fixed input is %d bytes, expected %d", target.Name, len(target.Fixed), target.InputSize)
	}

	classes, inputs := prepare(cfg, target)
	durations := make([]int64, cfg.Measurements)

	var acc uint8
	subtle.WithDataIndependentTiming(func() {
		// warm up caches and branch predictors
		for range cfg.Inner * 16 {
			acc ^= target.Run(target.Fixed)
		}

		for i := range durations {
			in := inputs[i*target.InputSize : (i+1)*target.InputSize]
			start := time.Now()
			for range cfg.Inner {
				acc ^= target.Run(in)
			}
			durations[i] = time.Since(start).Nanoseconds()
		}
	})
	sink ^= acc

	var raw, cropped [2]welford
	cutoff := percentile(durations, cfg.CropPercentile)
	for i, d := range durations {
		raw[classes[i]].push(float64(d))
		if d <= cutoff {
			cropped[classes[i]].push(float64(d))
		}
	}

	result := Result{
		Name:         target.Name,
		Measurements: cfg.Measurements,
		Mean:         [2]float64{raw[0].mean, raw[1].mean},
		T:            welchT(&raw[0], &raw[1]),
		CroppedT:     welchT(&cropped[0], &cropped[1]),
	}
	result.Leak = math.Max(math.Abs(result.T), math.Abs(result.CroppedT)) > cfg.Threshold

	utils.Debugf("timing", "%s: t = %.3f, cropped t = %.3f, means %.1f / %.1f ns", result.Name, result.T, result.CroppedT, result.Mean[0], result.Mean[1])
	return result
}

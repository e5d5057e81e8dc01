// Package decay provides the decay functions used by the aggregation engine
// in package aggregate: NoDecay, Linear, and Exponential, plus a Custom
// escape hatch for caller-supplied mask/weight pairs. A decay function is
// modelled as a small closed set of variants with a Custom fallback rather
// than a bare pair of func values, so the aggregation engine's hot loop can
// dispatch on a concrete type instead of paying for a closure allocation per
// contribution (see Decay.Mask/Decay.Weight).
package decay

import "math"

// Kind identifies which decay variant a Decay value holds.
type Kind int

const (
	// KindNoDecay gives every target within the cutoff equal weight 1.
	KindNoDecay Kind = iota
	// KindLinear ramps weight linearly from 1 at distance 0 to 0 at the cutoff.
	KindLinear
	// KindExponential applies exp(-(d/C)*k).
	KindExponential
	// KindCustom dispatches to caller-supplied Mask/Weight functions.
	KindCustom
)

// Decay is a (mask, weight) pair: mask(d) decides whether a
// target at cost d contributes at all, weight(d) is the multiplicative
// coefficient applied to its observation value. The zero value is not a
// valid Decay; construct one with NoDecay, Linear, Exponential, or Custom.
type Decay struct {
	kind       Kind
	cutoff     float64
	k          float64
	customMask func(d float64) bool
	customWt   func(d float64) float64
}

// KindName returns a short identifier for the decay's variant, used by
// package telemetry to tag aggregate spans ("no_decay", "linear",
// "exponential", or "custom").
func (d Decay) KindName() string {
	switch d.kind {
	case KindNoDecay:
		return "no_decay"
	case KindLinear:
		return "linear"
	case KindExponential:
		return "exponential"
	default:
		return "custom"
	}
}

// Cutoff returns the decay's own cutoff parameter C. The network façade
// rejects a decay whose Cutoff exceeds the all-pairs cutoff the distance
// table was preprocessed with — a wider decay applied to a narrower table
// would silently under-count. Custom decays report 0, since they carry no
// such parameter.
func (d Decay) Cutoff() float64 { return d.cutoff }

// Mask reports whether a target at cost dist contributes to the aggregate.
func (d Decay) Mask(dist float64) bool {
	switch d.kind {
	case KindCustom:
		return d.customMask(dist)
	default:
		return dist < d.cutoff
	}
}

// Weight returns the multiplicative coefficient for a target at cost dist.
// Callers must only call Weight where Mask(dist) is true; behaviour for
// masked-out distances is unspecified (the aggregation engine never calls
// Weight for a masked contribution).
func (d Decay) Weight(dist float64) float64 {
	switch d.kind {
	case KindNoDecay:
		return 1.0
	case KindLinear:
		w := (d.cutoff - dist) / d.cutoff
		if w < 0 {
			return 0
		}
		return w
	case KindExponential:
		return math.Exp(-(dist / d.cutoff) * d.k)
	case KindCustom:
		return d.customWt(dist)
	default:
		return 0
	}
}

// NoDecay returns the decay that counts every target within cutoff at full
// weight: mask(d) = d < C, weight(d) = 1.
func NoDecay(cutoff float64) Decay {
	return Decay{kind: KindNoDecay, cutoff: cutoff}
}

// Linear returns the decay that ramps weight from 1 at d=0 to 0 at d=cutoff:
// mask(d) = d < C, weight(d) = max(0, (C-d)/C).
func Linear(cutoff float64) Decay {
	return Decay{kind: KindLinear, cutoff: cutoff}
}

// Exponential returns the decay mask(d) = d < C, weight(d) = exp(-(d/C)*k).
// k must be positive.
func Exponential(cutoff, k float64) Decay {
	return Decay{kind: KindExponential, cutoff: cutoff, k: k}
}

// Custom wraps caller-supplied mask and weight functions as an opaque
// escape-hatch Decay, for callers whose decay shape isn't one of the three
// built-ins. The engine treats it exactly like any other Decay.
func Custom(mask func(d float64) bool, weight func(d float64) float64) Decay {
	return Decay{kind: KindCustom, customMask: mask, customWt: weight}
}

// Package adaptloop provides a cascade of non-linear adaptation loops, the
// stage of auditory models that follows inner-hair-cell envelope extraction
// and models the adaptive gain of the hair-cell/nerve synapse.
//
// Each loop divides its input by the output of a leaky integrator that is
// itself fed by the loop output. Under a constant input x a single loop
// settles to sqrt(x), so a cascade of L loops maps a stationary input to
// x^(1/2^L) while onsets pass almost unattenuated.
//
// The steady state is therefore not linear in the input. A constant input V
// settles to V^(1/2^L)*multiplier, which equals V*multiplier only at V = 1
// (use [BankT.SteadyState] for the exact value). Unit input always settles to
// the multiplier.
//
// An optional logistic limiter bounds the onset overshoot of each loop. With
// the default [LimiterEquilibrium] the bound is relative to the equilibrium
// for the current input, so the response to a step from silence to V never
// exceeds limit*SteadyState(V). For V >= 1 this is also below
// limit*V*multiplier. With [OutputModelUnits] the bound holds for the cascade
// output before the rest-level correction is subtracted.
//
// [BankT] is generic over the sample type; [Bank] (float64) and [Bank32]
// (float32) are the two supported instantiations. A bank is sized once for a
// number of channels and loops, configured (and reconfigured) with
// [BankT.Configure], and then driven block by block. State is carried across
// calls, so processing a signal in chunks yields exactly the same output as
// processing it in one call.
//
// Presets follow the common parameter sets of the auditory-modeling
// literature: [PresetDau1996], [PresetOsses2021], [PresetPuschel1988] and
// [PresetBreebaart2001].
//
// A bank is not safe for concurrent use; independent banks may be driven from
// different goroutines.
package adaptloop

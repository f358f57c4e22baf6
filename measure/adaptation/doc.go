// Package adaptation measures the temporal behaviour of an adaptation-loop
// bank.
//
// Two analyses are provided:
//
//   - [StepResponse] drives the bank from its rest state with a level step
//     and reports the onset peak, the settled output, the overshoot ratio and
//     the settling time.
//   - [ModulationTransfer] drives the bank with sinusoidally
//     amplitude-modulated envelopes and reports, per modulation frequency,
//     the output modulation depth relative to the input depth. The loops act
//     as a high-pass on the envelope: slow fluctuations are adapted away,
//     fast ones pass.
//
// Both functions reset the bank before measuring and leave it in the state
// reached at the end of the stimulus. Every channel receives the same
// stimulus; channel 0 is analysed.
//
// # Usage
//
//	bank, _ := adaptloop.New(1, 5)
//	_ = bank.Configure(44100, adaptloop.WithPreset(adaptloop.PresetOsses2021))
//	step, _ := adaptation.StepResponse(bank, 1, 2)
//	mtf, _ := adaptation.ModulationTransfer(bank, []float64{2, 8, 32}, 0.5, 0.1)
package adaptation

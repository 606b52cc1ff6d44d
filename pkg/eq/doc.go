// Package eq turns per-bin frequency magnitudes into a grid of equalizer cell states.
//
// A frame flows through GroupBands, Resample and ClassifyGrid, composed by Pipeline.
// Scheduler paces how often that happens, independently of the rate at which the host
// delivers timing ticks.
package eq

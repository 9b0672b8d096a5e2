// Package delineate locates the fiducial points of a cleaned ECG signal:
// the peaks, onsets, and offsets of the P, QRS, and T waves, anchored on a
// caller-supplied list of R-peak sample indices.
//
// Three strategies are available. MethodDerivative works beat by beat on
// heartbeat epochs, picking Q, P, S, and T from local extrema and the P
// onset and T offset from second-derivative curvature. MethodDWT resamples
// the signal to a fixed analysis rate, decomposes it with an à-trous
// multiscale filter bank, and reads peaks and boundaries off the detail
// coefficients. MethodCWT searches continuous wavelet coefficients at fixed
// dyadic scales; its transform is pluggable through WithContinuousTransform.
//
// All strategies are pure functions of their input: the signal is never
// modified and identical inputs produce identical results. Points that
// cannot be located in a particular beat are simply absent from the result
// rather than failing the whole call.
package delineate

// (c) Copyright Enthought, Inc. 2013

//go:build !linux
// +build !linux

package erinyes

func defaultSampler() Sampler {
	return HeapSampler()
}

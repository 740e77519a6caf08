// (c) Copyright Enthought, Inc. 2013

// Package pprofutil reads aggregate Go heap usage from the runtime heap
// profile. Only profile totals are consumed; call sites are never inspected.
package pprofutil

import (
	"bytes"
	"errors"
	"fmt"
	"runtime"
	"runtime/pprof"

	"github.com/google/pprof/profile"
)

// HeapInUse returns the number of bytes currently retained by live heap
// objects, as reported by the runtime heap profile. The profile reflects
// the state as of the last garbage collection, so callers measuring
// retained memory should force a collection first.
func HeapInUse() (float64, error) {
	p, err := readHeapProfile()
	if err != nil {
		return 0, err
	}

	inuseSpaceTypeIndex := -1
	for i, s := range p.SampleType {
		if s.Type == "inuse_space" {
			inuseSpaceTypeIndex = i
			break
		}
	}

	if inuseSpaceTypeIndex == -1 {
		return 0, errors.New("unrecognized profile data")
	}

	var total float64
	for _, s := range p.Sample {
		total += float64(s.Value[inuseSpaceTypeIndex])
	}

	return total, nil
}

func readHeapProfile() (*profile.Profile, error) {
	// runtime/pprof snapshots the profile as of the latest completed GC
	// cycle; an explicit GC makes it reflect the present heap.
	runtime.GC()

	var buf bytes.Buffer
	if err := pprof.WriteHeapProfile(&buf); err != nil {
		return nil, err
	}

	p, err := profile.Parse(&buf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse heap profile: %w", err)
	}

	if err := p.CheckValid(); err != nil {
		return nil, err
	}

	return p, nil
}

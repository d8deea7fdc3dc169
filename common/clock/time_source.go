// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sync"
	"time"
)

type (
	// TimeSource provides the current wall clock time.
	// Production code uses the real time source; tests use a manual one
	// so that due-time comparisons are deterministic.
	TimeSource interface {
		Now() time.Time
	}

	realTimeSource struct{}

	// ManualTimeSource is a TimeSource whose current time is set by the caller
	ManualTimeSource struct {
		sync.RWMutex
		now time.Time
	}
)

func NewRealTimeSource() TimeSource {
	return &realTimeSource{}
}

func (r *realTimeSource) Now() time.Time {
	return time.Now()
}

func NewManualTimeSource(now time.Time) *ManualTimeSource {
	return &ManualTimeSource{now: now}
}

func (m *ManualTimeSource) Now() time.Time {
	m.RLock()
	defer m.RUnlock()
	return m.now
}

func (m *ManualTimeSource) Update(now time.Time) {
	m.Lock()
	defer m.Unlock()
	m.now = now
}

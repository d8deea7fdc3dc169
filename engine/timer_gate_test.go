// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/premunia/automation/common/log"
)

func TestTimerGateFiresAtUpdatedTime(t *testing.T) {
	gate := NewLocalTimerGate(log.NewDevelopmentLogger())
	defer gate.Close()

	assert.True(t, gate.Update(time.Now().Add(10*time.Millisecond)))
	select {
	case <-gate.FireChan():
	case <-time.After(time.Second):
		t.Fatal("timer gate did not fire")
	}
}

func TestTimerGateKeepsSoonerArmedTime(t *testing.T) {
	gate := NewLocalTimerGate(log.NewDevelopmentLogger())
	defer gate.Close()

	assert.True(t, gate.Update(time.Now().Add(50*time.Millisecond)))
	// a later wake-up must not push out the armed one
	assert.False(t, gate.Update(time.Now().Add(time.Hour)))
	select {
	case <-gate.FireChan():
	case <-time.After(time.Second):
		t.Fatal("timer gate did not fire at the sooner armed time")
	}
}

func TestTimerGateSoonerUpdateRearms(t *testing.T) {
	gate := NewLocalTimerGate(log.NewDevelopmentLogger())
	defer gate.Close()

	assert.True(t, gate.Update(time.Now().Add(time.Hour)))
	assert.True(t, gate.Update(time.Now().Add(10*time.Millisecond)))
	select {
	case <-gate.FireChan():
	case <-time.After(time.Second):
		t.Fatal("timer gate did not fire after re-arming sooner")
	}
}

// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"time"

	"github.com/premunia/automation/common/clock"
	"github.com/premunia/automation/common/log"
)

type (
	// TimerGate wraps a single timer behind a signal channel.
	// After receiving a signal, the caller calls Update to arm the next one.
	TimerGate interface {
		// FireChan returns the channel firing timers signal into
		FireChan() <-chan struct{}
		// Update arms the gate, returning true when the gate was idle or the
		// new time is sooner than the currently armed one
		Update(nextTime time.Time) bool
		// Close shuts the gate down
		Close()
	}

	localTimerGate struct {
		fireChan  chan struct{}
		closeChan chan struct{}

		timeSource clock.TimeSource

		timer          *time.Timer
		nextWakeupTime time.Time
		logger         log.Logger
	}
)

func NewLocalTimerGate(logger log.Logger) TimerGate {
	gate := &localTimerGate{
		timer:          time.NewTimer(0),
		nextWakeupTime: time.Time{},
		fireChan:       make(chan struct{}, 1),
		closeChan:      make(chan struct{}),
		timeSource:     clock.NewRealTimeSource(),
		logger:         logger,
	}

	if !gate.timer.Stop() {
		// the timer should start stopped, drain it in case it fired
		<-gate.timer.C
	}

	go func() {
		defer close(gate.fireChan)
		defer gate.timer.Stop()
	loop:
		for {
			select {
			case <-gate.timer.C:
				select {
				case gate.fireChan <- struct{}{}:
				default:
					// the caller hasn't consumed the previous signal yet
					logger.Warn("timer gate fireChan is full when sending signal")
				}

			case <-gate.closeChan:
				break loop
			}
		}
	}()

	return gate
}

func (tg *localTimerGate) FireChan() <-chan struct{} {
	return tg.fireChan
}

func (tg *localTimerGate) Update(nextTime time.Time) bool {
	// a negative duration makes the timer fire immediately
	now := tg.timeSource.Now()

	if tg.timer.Stop() && tg.nextWakeupTime.Before(nextTime) {
		// the armed time is already sooner, keep it
		tg.timer.Reset(tg.nextWakeupTime.Sub(now))
		return false
	}

	tg.nextWakeupTime = nextTime
	tg.timer.Reset(nextTime.Sub(now))
	return true
}

func (tg *localTimerGate) Close() {
	close(tg.closeChan)
}

// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package engine

import "errors"

// ConfigurationError means the action can never succeed as configured,
// e.g. a step referencing a deleted email template. The action fails
// terminally without retry.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

func NewConfigurationError(message string) error {
	return &ConfigurationError{Message: message}
}

func AsConfigurationError(err error) (*ConfigurationError, bool) {
	var confErr *ConfigurationError
	ok := errors.As(err, &confErr)
	return confErr, ok
}

// TransientDeliveryError means an outbound sink failed in a way that may
// succeed on retry. The action goes back to PENDING with a pushed-forward
// due time until MaximumAttempts is exhausted.
type TransientDeliveryError struct {
	Message string
	Cause   error
}

func (e *TransientDeliveryError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *TransientDeliveryError) Unwrap() error {
	return e.Cause
}

func NewTransientDeliveryError(message string, cause error) error {
	return &TransientDeliveryError{Message: message, Cause: cause}
}

func AsTransientDeliveryError(err error) (*TransientDeliveryError, bool) {
	var deliveryErr *TransientDeliveryError
	ok := errors.As(err, &deliveryErr)
	return deliveryErr, ok
}

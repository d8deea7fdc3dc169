// Copyright (c) 2024 Premunia Organization
// SPDX-License-Identifier: Apache-2.0

package tag

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

const LoggingCallAtKey = "logging-call-at"

// Tag is the interface for logging system
type Tag struct {
	// keep this field private
	field zap.Field
}

// Field returns a zap field
func (t *Tag) Field() zap.Field {
	return t.field
}

func newStringTag(key string, value string) Tag {
	return Tag{
		field: zap.String(key, value),
	}
}

func newInt64(key string, value int64) Tag {
	return Tag{
		field: zap.Int64(key, value),
	}
}

func newInt(key string, value int) Tag {
	return Tag{
		field: zap.Int(key, value),
	}
}

func newTimeTag(key string, value time.Time) Tag {
	return Tag{
		field: zap.Time(key, value),
	}
}

func newObjectTag(key string, value interface{}) Tag {
	return Tag{
		field: zap.String(key, fmt.Sprintf("%v", value)),
	}
}

func newErrorTag(key string, value error) Tag {
	//NOTE zap already chosen "error" as key
	return Tag{
		field: zap.Error(value),
	}
}

// TAGS

func Error(err error) Tag {
	return newErrorTag("error", err)
}

func Service(sv string) Tag {
	return newStringTag("service", sv)
}

func Message(msg string) Tag {
	return newStringTag("message", msg)
}

func ProspectId(id string) Tag {
	return newStringTag("prospectId", id)
}

func SequenceId(id string) Tag {
	return newStringTag("sequenceId", id)
}

func SequenceName(name string) Tag {
	return newStringTag("sequenceName", name)
}

func InstanceId(id string) Tag {
	return newStringTag("instanceId", id)
}

func ActionId(id string) Tag {
	return newStringTag("actionId", id)
}

func StepId(id string) Tag {
	return newStringTag("stepId", id)
}

func ActionKind(kind string) Tag {
	return newStringTag("actionKind", kind)
}

func ProspectStatus(status string) Tag {
	return newStringTag("prospectStatus", status)
}

func TemplateId(id string) Tag {
	return newStringTag("templateId", id)
}

func ExecutionOrder(order int) Tag {
	return newInt("executionOrder", order)
}

func Attempt(count int32) Tag {
	return newInt64("attempt", int64(count))
}

func DueAt(t time.Time) Tag {
	return newTimeTag("dueAt", t)
}

func StatusCode(status int) Tag {
	return newInt("status", status)
}

func AnyToStr(v interface{}) string {
	return fmt.Sprintf("%v", v)
}

func Value(v interface{}) Tag {
	return newObjectTag("value", v)
}

func ID(v string) Tag {
	return newStringTag("ID", v)
}

func Key(v string) Tag {
	return newStringTag("Key", v)
}

func DefaultValue(v interface{}) Tag {
	return newObjectTag("default-value", v)
}

package metrics

import (
	"reflect"
)

// NamedJob is implemented by job payloads that know their own display name.
// Generic adapters that wrap another job should delegate to the wrapped job's
// name so metrics are labeled by the logical job type, not the adapter.
type NamedJob interface {
	DisplayName() string
}

// WorkerName derives the worker label for a job payload. Resolution order:
// a NamedJob's DisplayName, a plain string identifier as-is, otherwise the
// payload's type name. The result is stable across retries of the same
// logical job type.
func WorkerName(payload interface{}) string {
	switch v := payload.(type) {
	case NamedJob:
		return v.DisplayName()
	case string:
		return v
	}
	t := reflect.TypeOf(payload)
	if t == nil {
		return "unknown"
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if name := t.Name(); name != "" {
		return name
	}
	return t.String()
}

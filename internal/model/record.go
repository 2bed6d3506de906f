package model

import (
	"strconv"
	"strings"
	"time"
)

// SourceType identifies where a log record was collected from.
type SourceType string

const (
	SourcePanorama SourceType = "panorama"
	SourceFirewall SourceType = "firewall"
)

// ParseSourceType converts a string to a SourceType. Unknown strings
// default to SourceFirewall.
func ParseSourceType(s string) SourceType {
	if strings.EqualFold(s, string(SourcePanorama)) {
		return SourcePanorama
	}
	return SourceFirewall
}

// Priority is the severity level carried by every log record.
type Priority string

const (
	PriorityCritical      Priority = "critical"
	PriorityHigh          Priority = "high"
	PriorityMedium        Priority = "medium"
	PriorityLow           Priority = "low"
	PriorityInformational Priority = "informational"
)

// Priorities lists all priority levels from most to least severe.
// Used for stable iteration order in reports.
var Priorities = []Priority{
	PriorityCritical,
	PriorityHigh,
	PriorityMedium,
	PriorityLow,
	PriorityInformational,
}

// ParsePriority converts a string to a Priority, case-insensitively.
// Returns false if the string names no known level.
func ParsePriority(s string) (Priority, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical":
		return PriorityCritical, true
	case "high":
		return PriorityHigh, true
	case "medium":
		return PriorityMedium, true
	case "low":
		return PriorityLow, true
	case "informational", "info":
		return PriorityInformational, true
	}
	return "", false
}

// ValueKind discriminates the typed field values a LogRecord can carry.
type ValueKind int

const (
	KindAbsent ValueKind = iota
	KindString
	KindNumber
	KindTime
)

// Value is a typed log field value. The zero value is Absent, which is
// distinct from an empty string or zero number so downstream feature
// extraction can tell missing from zero.
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
	Time time.Time
}

// Absent is the explicit sentinel for a missing field value.
var Absent = Value{Kind: KindAbsent}

func StringValue(s string) Value  { return Value{Kind: KindString, Str: s} }
func NumberValue(f float64) Value { return Value{Kind: KindNumber, Num: f} }
func TimeValue(t time.Time) Value { return Value{Kind: KindTime, Time: t} }

// IsAbsent reports whether the value is the Absent sentinel.
func (v Value) IsAbsent() bool { return v.Kind == KindAbsent }

// Text returns a string rendering of the value. Absent renders as "".
func (v Value) Text() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case KindTime:
		return v.Time.Format(time.RFC3339)
	}
	return ""
}

// LogRecord is the uniform representation of one normalized log entry.
// Created by the normalizer and immutable thereafter.
type LogRecord struct {
	Timestamp  time.Time
	SourceType SourceType
	Priority   Priority
	RawSize    int64 // size of the raw encoded record in bytes
	Fields     map[string]Value
}

// Field returns the named field value, or Absent when the record does not
// carry it.
func (r LogRecord) Field(name string) Value {
	if v, ok := r.Fields[name]; ok {
		return v
	}
	return Absent
}

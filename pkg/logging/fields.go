package logging

import (
	"time"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Component field helpers for common component names
func Component(name string) Field {
	return String("component", name)
}

func DeviceID(id string) Field {
	return String("device_id", id)
}

func Protocol(tag string) Field {
	return String("protocol", tag)
}

func SnapshotID(id string) Field {
	return String("snapshot_id", id)
}

func NodeCount(n int) Field {
	return Int("node_count", n)
}

func Addr(addr string) Field {
	return String("addr", addr)
}

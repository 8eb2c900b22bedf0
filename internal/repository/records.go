package repository

import (
	"fmt"
	"time"

	"curiolearn_backend/internal/util"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// storeErr folds driver failures into the StoreUnavailable taxonomy so
// callers can retry on errors.Is.
func storeErr(err error) error {
	return fmt.Errorf("%w: %v", util.ErrStoreUnavailable, err)
}

func nodeProps(rec *neo4j.Record, key string) (map[string]any, bool) {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return nil, false
	}
	node, ok := v.(neo4j.Node)
	if !ok {
		return nil, false
	}
	return node.Props, true
}

func propString(props map[string]any, key string) string {
	s, _ := props[key].(string)
	return s
}

// propFloat reads a numeric property; serial numbers round-trip as int64
// when they carry no fraction.
func propFloat(props map[string]any, key string) float64 {
	switch n := props[key].(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	}
	return 0
}

func propTime(props map[string]any, key string) (time.Time, bool) {
	t, ok := props[key].(time.Time)
	return t, ok
}

func asInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asTime(v any) (time.Time, bool) {
	t, ok := v.(time.Time)
	return t, ok
}

func containsLabel(v any, want string) bool {
	list, ok := v.([]any)
	if !ok {
		return false
	}
	for _, l := range list {
		if s, ok := l.(string); ok && s == want {
			return true
		}
	}
	return false
}

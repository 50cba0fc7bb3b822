package tmpl

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Stringify returns the text a value renders as. Nil renders as
// nothing, numbers use their shortest exact decimal form and
// sequences render as their elements joined by commas. Mappings have
// no text form and render as nothing.
func Stringify(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return formatFloat(v, 64)
	case float32:
		return formatFloat(float64(v), 32)
	case json.Number:
		return v.String()
	case fmt.Stringer:
		return v.String()
	case Scope, map[string]any:
		return ""
	}

	if seq, ok := asSequence(v); ok {
		return Join(seq, ",")
	}
	return fmt.Sprint(v)
}

// Join stringifies each element of seq and joins the results with
// sep.
func Join(seq []any, sep string) string {
	parts := make([]string, len(seq))
	for i, e := range seq {
		parts[i] = Stringify(e)
	}
	return strings.Join(parts, sep)
}

func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}

	if math.Abs(f) >= 1e21 {
		return strconv.FormatFloat(f, 'g', -1, bits)
	}
	return strconv.FormatFloat(f, 'f', -1, bits)
}

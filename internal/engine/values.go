package engine

import (
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/marcboeker/go-duckdb"
)

// Output layouts for temporal columns.
const (
	TimeLayout   = "15:04:05.999999"
	TimeTZLayout = "15:04:05.999999Z07:00"
)

// Converter turns one scanned value of a known column type into its JSON form.
type Converter func(v any) any

// ConverterFor returns the converter for a column whose DuckDB type name is
// dbType, as reported by sql.ColumnType.DatabaseTypeName. Types without a
// dedicated rule fall back to Normalize.
func ConverterFor(dbType string) Converter {
	switch {
	case dbType == "DATE":
		return timeConverter(time.DateOnly)
	case dbType == "TIME":
		return timeConverter(TimeLayout)
	case dbType == "TIMETZ":
		return timeConverter(TimeTZLayout)
	case strings.HasPrefix(dbType, "TIMESTAMP"):
		return timeConverter(time.RFC3339Nano)
	case dbType == "UUID":
		return convertUUID
	case strings.HasPrefix(dbType, "DECIMAL"):
		return convertDecimal
	default:
		return Normalize
	}
}

func timeConverter(layout string) Converter {
	return func(v any) any {
		if t, ok := v.(time.Time); ok {
			return t.Format(layout)
		}
		return Normalize(v)
	}
}

func convertUUID(v any) any {
	if b, ok := v.([]byte); ok && len(b) == 16 {
		return uuid.UUID(b).String()
	}
	return Normalize(v)
}

// convertDecimal keeps every digit; a float64 cannot hold DECIMAL(38,x).
func convertDecimal(v any) any {
	switch d := v.(type) {
	case duckdb.Decimal:
		return decimalString(d)
	case *duckdb.Decimal:
		if d == nil {
			return nil
		}
		return decimalString(*d)
	}
	return Normalize(v)
}

// decimalString renders d with exactly d.Scale fractional digits, so
// DECIMAL(10,2) 1.50 stays "1.50".
func decimalString(d duckdb.Decimal) string {
	if d.Value == nil {
		return "0"
	}
	digits := new(big.Int).Abs(d.Value).String()
	scale := int(d.Scale)
	if scale > 0 {
		if len(digits) <= scale {
			digits = strings.Repeat("0", scale-len(digits)+1) + digits
		}
		digits = digits[:len(digits)-scale] + "." + digits[len(digits)-scale:]
	}
	if d.Value.Sign() < 0 {
		return "-" + digits
	}
	return digits
}

// Normalize converts a scanned DuckDB value of unknown column type into
// something encoding/json can represent. It is also applied to the elements
// of LIST, STRUCT and MAP values.
func Normalize(v any) any {
	switch v := v.(type) {
	case nil, bool, string,
		int8, int16, int32, int64, int,
		uint8, uint16, uint32, uint64, uint:
		return v
	case float32:
		return normalizeFloat(float64(v))
	case float64:
		return normalizeFloat(v)
	case []byte:
		if utf8.Valid(v) {
			return string(v)
		}
		return v
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case *big.Int:
		if v == nil {
			return nil
		}
		if v.IsInt64() {
			return v.Int64()
		}
		return v.String()
	case duckdb.Decimal:
		return decimalString(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = Normalize(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = Normalize(e)
		}
		return out
	case duckdb.Map:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[fmt.Sprint(Normalize(k))] = Normalize(e)
		}
		return out
	case fmt.Stringer:
		return v.String()
	default:
		return v
	}
}

// normalizeFloat maps NaN and infinities to strings; JSON has no literal for them.
func normalizeFloat(f float64) any {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	default:
		return f
	}
}

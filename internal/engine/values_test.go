package engine

import (
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/marcboeker/go-duckdb"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	huge, _ := new(big.Int).SetString("170141183460469231731687303715884105727", 10)

	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"int", int64(7), int64(7)},
		{"text bytes", []byte("hello"), "hello"},
		{"binary bytes", []byte{0xff, 0xfe}, []byte{0xff, 0xfe}},
		{"midnight time stays RFC 3339", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), "2024-01-15T00:00:00Z"},
		{"timestamp", time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC), "2024-01-15T09:30:00Z"},
		{"decimal", duckdb.Decimal{Width: 5, Scale: 2, Value: big.NewInt(150)}, "1.50"},
		{"small hugeint", big.NewInt(42), int64(42)},
		{"large hugeint", huge, "170141183460469231731687303715884105727"},
		{"nan", math.NaN(), "NaN"},
		{"inf", math.Inf(1), "Infinity"},
		{"neg inf", float32(math.Inf(-1)), "-Infinity"},
		{"list", []any{[]byte("a"), int32(1)}, []any{"a", int32(1)}},
		{"struct", map[string]any{"k": []byte("v")}, map[string]any{"k": "v"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestConverterFor(t *testing.T) {
	ts := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	clock := time.Date(1, 1, 1, 7, 5, 3, 250000000, time.UTC)
	raw := []byte{0x41, 0x41, 0x41, 0x41, 0x41, 0x41, 0x41, 0x41, 0x41, 0x41, 0x41, 0x41, 0x41, 0x41, 0x41, 0x41}
	huge, _ := new(big.Int).SetString("1234567890123456789012", 10)

	tests := []struct {
		name   string
		dbType string
		in     any
		want   any
	}{
		{"date", "DATE", ts, "2024-05-06"},
		{"timestamp keeps time at midnight", "TIMESTAMP", ts, "2024-05-06T00:00:00Z"},
		{"timestamp_ms", "TIMESTAMP_MS", ts, "2024-05-06T00:00:00Z"},
		{"timestamptz", "TIMESTAMPTZ", ts, "2024-05-06T00:00:00Z"},
		{"time drops the placeholder date", "TIME", clock, "07:05:03.25"},
		{"timetz", "TIMETZ", clock, "07:05:03.25Z"},
		{"uuid bytes", "UUID", raw, "41414141-4141-4141-4141-414141414141"},
		{"wide decimal", "DECIMAL(38,2)", duckdb.Decimal{Width: 38, Scale: 2, Value: huge}, "12345678901234567890.12"},
		{"small decimal", "DECIMAL(4,3)", duckdb.Decimal{Width: 4, Scale: 3, Value: big.NewInt(-5)}, "-0.005"},
		{"integer decimal", "DECIMAL(4,0)", duckdb.Decimal{Width: 4, Scale: 0, Value: big.NewInt(12)}, "12"},
		{"null passes through", "UUID", nil, nil},
		{"untyped falls back", "VARCHAR", []byte("x"), "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConverterFor(tt.dbType)(tt.in))
		})
	}
}

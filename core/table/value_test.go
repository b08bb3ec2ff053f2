package table

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTypeOf(t *testing.T) {
	cases := []struct {
		name  string
		value any
		want  ColumnType
		ok    bool
	}{
		{"integer", int64(3), ColumnTypeInteger, true},
		{"float", 3.5, ColumnTypeFloat, true},
		{"string", "x", ColumnTypeString, true},
		{"boolean", true, ColumnTypeBoolean, true},
		{"timestamp", time.Now(), ColumnTypeTimestamp, true},
		{"nil", nil, ColumnType(""), false},
		{"narrow int", int32(3), ColumnType(""), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := TypeOf(tc.value)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	t.Run("Nil stays nil", func(t *testing.T) {
		v, err := Normalize(nil, ColumnTypeFloat)
		assert.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("Integer widening", func(t *testing.T) {
		v, err := Normalize(int32(5), ColumnTypeInteger)
		assert.NoError(t, err)
		assert.Equal(t, int64(5), v)
	})

	t.Run("Whole float to integer", func(t *testing.T) {
		v, err := Normalize(5.0, ColumnTypeInteger)
		assert.NoError(t, err)
		assert.Equal(t, int64(5), v)
	})

	t.Run("Fractional float to integer fails", func(t *testing.T) {
		_, err := Normalize(5.5, ColumnTypeInteger)
		assert.Error(t, err)
	})

	t.Run("String parsing", func(t *testing.T) {
		v, err := Normalize("42", ColumnTypeInteger)
		assert.NoError(t, err)
		assert.Equal(t, int64(42), v)

		v, err = Normalize("2.5", ColumnTypeFloat)
		assert.NoError(t, err)
		assert.Equal(t, 2.5, v)

		v, err = Normalize("true", ColumnTypeBoolean)
		assert.NoError(t, err)
		assert.Equal(t, true, v)

		v, err = Normalize("2024-03-01T10:00:00Z", ColumnTypeTimestamp)
		assert.NoError(t, err)
		assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), v)
	})

	t.Run("Numeric boolean", func(t *testing.T) {
		v, err := Normalize(int64(1), ColumnTypeBoolean)
		assert.NoError(t, err)
		assert.Equal(t, true, v)

		v, err = Normalize(int64(0), ColumnTypeBoolean)
		assert.NoError(t, err)
		assert.Equal(t, false, v)
	})

	t.Run("Bytes to string", func(t *testing.T) {
		v, err := Normalize([]byte("hi"), ColumnTypeString)
		assert.NoError(t, err)
		assert.Equal(t, "hi", v)
	})

	t.Run("Unsupported coercion", func(t *testing.T) {
		_, err := Normalize(true, ColumnTypeFloat)
		assert.Error(t, err)
	})
}

func TestToFloat64(t *testing.T) {
	v, ok := ToFloat64(int8(3))
	assert.True(t, ok)
	assert.Equal(t, 3.0, v)

	v, ok = ToFloat64(uint64(7))
	assert.True(t, ok)
	assert.Equal(t, 7.0, v)

	_, ok = ToFloat64("3")
	assert.False(t, ok)
}

func TestCompare(t *testing.T) {
	t.Run("Numbers across kinds", func(t *testing.T) {
		cmp, err := Compare(int64(2), 3.5)
		assert.NoError(t, err)
		assert.Equal(t, -1, cmp)
	})

	t.Run("Strings", func(t *testing.T) {
		cmp, err := Compare("b", "a")
		assert.NoError(t, err)
		assert.Equal(t, 1, cmp)
	})

	t.Run("Booleans", func(t *testing.T) {
		cmp, err := Compare(false, true)
		assert.NoError(t, err)
		assert.Equal(t, -1, cmp)
	})

	t.Run("Timestamps", func(t *testing.T) {
		earlier := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		later := earlier.Add(time.Hour)
		cmp, err := Compare(later, earlier)
		assert.NoError(t, err)
		assert.Equal(t, 1, cmp)
		cmp, err = Compare(earlier, earlier)
		assert.NoError(t, err)
		assert.Equal(t, 0, cmp)
	})

	t.Run("Incomparable types", func(t *testing.T) {
		_, err := Compare("a", true)
		assert.Error(t, err)
	})
}

func TestErrorKinds(t *testing.T) {
	assert.ErrorIs(t, &MissingColumnError{Column: "x"}, ErrMissingColumn)
	assert.ErrorIs(t, &TypeMismatchError{Column: "x"}, ErrTypeMismatch)
	assert.ErrorIs(t, &UndefinedAggregateError{Aggregate: "mean", Column: "x"}, ErrUndefinedAggregate)
	assert.ErrorIs(t, &ColumnExistsError{Column: "x"}, ErrColumnExists)
	assert.Contains(t, (&MissingColumnError{Column: "dep"}).Error(), "dep")
}

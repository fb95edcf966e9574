package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_NoFilters(t *testing.T) {
	q, err := Build(nil)
	require.NoError(t, err)

	assert.Empty(t, q.Where)
	assert.Empty(t, q.Args)
	assert.Equal(t, []string{"name"}, q.OrderBy)
}

func TestBuild_EqualityFilters(t *testing.T) {
	q, err := Build([]Filter{
		{Field: "CITY", Operator: "EQ", Value: "London"},
		{Field: "MONTH", Operator: "EQ", Value: "6"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"city = $1", "month = $2"}, q.Where)
	assert.Equal(t, []interface{}{"London", 6}, q.Args)
	assert.Equal(t, []string{"name"}, q.OrderBy)
}

func TestBuild_TopicEquality(t *testing.T) {
	q, err := Build([]Filter{
		{Field: "TOPIC", Operator: "EQ", Value: "Go"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"$1 = ANY(topics)"}, q.Where)
	assert.Equal(t, []interface{}{"Go"}, q.Args)
}

func TestBuild_InequalityOrdersByFieldThenName(t *testing.T) {
	q, err := Build([]Filter{
		{Field: "MAX_ATTENDEES", Operator: "GT", Value: "10"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"max_attendees > $1"}, q.Where)
	assert.Equal(t, []string{"max_attendees", "name"}, q.OrderBy)
}

func TestBuild_SameFieldMultipleInequalities(t *testing.T) {
	// A range on one field is fine
	q, err := Build([]Filter{
		{Field: "MONTH", Operator: "GTEQ", Value: "6"},
		{Field: "MONTH", Operator: "LTEQ", Value: "9"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"month >= $1", "month <= $2"}, q.Where)
	assert.Equal(t, []string{"month", "name"}, q.OrderBy)
}

func TestBuild_TwoInequalityFieldsRejected(t *testing.T) {
	_, err := Build([]Filter{
		{Field: "MONTH", Operator: "GT", Value: "6"},
		{Field: "MAX_ATTENDEES", Operator: "LT", Value: "100"},
	})
	assert.ErrorIs(t, err, ErrMultipleInequalityFilters)
}

func TestBuild_InequalityPlusEqualityAllowed(t *testing.T) {
	q, err := Build([]Filter{
		{Field: "CITY", Operator: "EQ", Value: "Paris"},
		{Field: "MONTH", Operator: "NE", Value: "6"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"city = $1", "month <> $2"}, q.Where)
	assert.Equal(t, []string{"month", "name"}, q.OrderBy)
}

func TestBuild_UnknownField(t *testing.T) {
	_, err := Build([]Filter{
		{Field: "VENUE", Operator: "EQ", Value: "x"},
	})
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestBuild_UnknownOperator(t *testing.T) {
	_, err := Build([]Filter{
		{Field: "CITY", Operator: "LIKE", Value: "x"},
	})
	assert.ErrorIs(t, err, ErrUnknownOperator)
}

func TestBuild_NumericCoercion(t *testing.T) {
	tests := []struct {
		name    string
		filter  Filter
		wantErr bool
	}{
		{"month parses", Filter{Field: "MONTH", Operator: "EQ", Value: "12"}, false},
		{"month garbage", Filter{Field: "MONTH", Operator: "EQ", Value: "June"}, true},
		{"max attendees garbage", Filter{Field: "MAX_ATTENDEES", Operator: "GT", Value: "ten"}, true},
		{"city stays text", Filter{Field: "CITY", Operator: "EQ", Value: "10"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build([]Filter{tt.filter})
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidNumericValue)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

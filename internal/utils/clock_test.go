package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTimeTokens(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		expected []string
	}{
		{
			name:     "single token",
			raw:      "9:00 AM",
			expected: []string{"9:00 AM"},
		},
		{
			name:     "glued legacy tokens",
			raw:      "9:00 AM10:00 AM",
			expected: []string{"9:00 AM", "10:00 AM"},
		},
		{
			name:     "tokens with separator",
			raw:      "11:00 AM - 12:00 PM",
			expected: []string{"11:00 AM", "12:00 PM"},
		},
		{
			name:     "leading zero hour",
			raw:      "09:30 AM",
			expected: []string{"09:30 AM"},
		},
		{
			name:     "no tokens at all",
			raw:      "after lunch",
			expected: nil,
		},
		{
			name:     "empty string",
			raw:      "",
			expected: nil,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, ExtractTimeTokens(testCase.raw))
		})
	}
}

func TestTimeOrder(t *testing.T) {
	assert.Equal(t, 6*60, TimeOrder("6:00 AM"))
	assert.Equal(t, 12*60, TimeOrder("12:00 PM"))
	assert.Equal(t, 17*60, TimeOrder("5:00 PM"))

	// Непарсящиеся строки уходят в конец сортировки
	assert.Equal(t, 24*60, TimeOrder("after lunch"))
	assert.Equal(t, 24*60, TimeOrder(""))

	// Слоты сетки заданы в хронологическом порядке
	for i := 1; i < len(TimeSlots); i++ {
		assert.Less(t, TimeOrder(TimeSlots[i-1]), TimeOrder(TimeSlots[i]))
	}
}

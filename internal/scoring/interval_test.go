package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileIntervalMatcher(t *testing.T) {
	tests := []struct {
		name  string
		expr  string
		value any
		want  bool
	}{
		{"less-than prefix inside", "<50000", 40000.0, true},
		{"less-than prefix boundary", "<50000", 50000.0, false},
		{"greater-than prefix", ">150000", 200000.0, true},
		{"greater-than prefix boundary", ">150000", 150000.0, false},
		{"lte prefix boundary", "<=100", 100.0, true},
		{"gte prefix", ">=760", 780.0, true},
		{"hyphen range inside", "50000-150000", 150000.0, true},
		{"hyphen range below", "50000-150000", 49999.0, false},
		{"spaced hyphen range", "800 - 999", 850.0, true},
		{"between phrase", "between 500 and 1000", 750.0, true},
		{"between phrase outside", "between 500 and 1000", 1200.0, false},
		{"plus suffix inclusive", "1000 cr+", 1000.0, true},
		{"plus suffix below", "1000 cr+", 999.0, false},
		{"months and above inclusive", "6 months and above", 6.0, true},
		{"months and above below", "6 months and above", 5.0, false},
		{"above exclusive for plain numbers", "above 1000", 1000.0, false},
		{"above matches larger", "above 1000", 1001.0, true},
		{"less than phrase", "less than 3", 2.0, true},
		{"less than phrase boundary", "less than 3", 3.0, false},
		{"below phrase", "below 500", 400.0, true},
		{"under phrase", "under 12", 11.0, true},
		{"exact number", "750", 750.0, true},
		{"exact number mismatch", "750", 751.0, false},
		{"string equality yes", "yes", "Yes", true},
		{"string equality no", "yes", "no", false},
		{"rating label", "excellent", "  Excellent  ", true},
		{"string value with units", "1000 cr+", "1200 crore", true},
		{"string value with months", "6 months and above", "18 months", true},
		{"non-numeric against numeric rule", "<50000", "not applicable", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := compileIntervalMatcher(tt.expr)
			str, num := normalizeValue(tt.value)
			assert.Equal(t, tt.want, m(str, num))
		})
	}
}

func TestNormalizeValue(t *testing.T) {
	t.Run("float carries numeric form", func(t *testing.T) {
		str, num := normalizeValue(1500.5)
		require.NotNil(t, num)
		assert.Equal(t, 1500.5, *num)
		assert.Equal(t, "1500.5", str)
	})

	t.Run("numeric string with units", func(t *testing.T) {
		str, num := normalizeValue("1,200 Cr")
		require.NotNil(t, num)
		assert.Equal(t, 1200.0, *num)
		assert.Equal(t, "1,200 cr", str)
	})

	t.Run("plain string has no numeric form", func(t *testing.T) {
		str, num := normalizeValue("  Excellent ")
		assert.Nil(t, num)
		assert.Equal(t, "excellent", str)
	})

	t.Run("unsupported type", func(t *testing.T) {
		str, num := normalizeValue(nil)
		assert.Nil(t, num)
		assert.Empty(t, str)
	})
}

func TestStripUnits(t *testing.T) {
	assert.Equal(t, "1000 +", stripUnits("1000 cr+"))
	assert.Equal(t, "18", stripUnits("18 months"))
	assert.Equal(t, "1200", stripUnits("1,200"))
}

package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryanv175/finance-dashboard-saksham/internal/domain"
)

func floatPtr(f float64) *float64 { return &f }

func strPtr(s string) *string { return &s }

func TestNewCatalog(t *testing.T) {
	t.Run("compiles a valid criteria set", func(t *testing.T) {
		catalog, err := NewCatalog([]domain.Criterion{
			{Parameter: "Revenue", Weight: floatPtr(30), MinValue: floatPtr(100000)},
			{Parameter: "Credit Score", Weight: floatPtr(20), ScoringIntervals: []domain.ScoringInterval{
				{Range: "800-900", Score: 10},
				{Range: "<800", Score: 5},
			}},
			{Parameter: "Audited", PreferredValue: strPtr("Yes")},
		})
		require.NoError(t, err)

		assert.Len(t, catalog.Criteria(), 3)
		assert.Equal(t, 51.0, catalog.MaxPossibleScore())
	})

	t.Run("missing weight defaults to one", func(t *testing.T) {
		catalog, err := NewCatalog([]domain.Criterion{
			{Parameter: "Margin", MinValue: floatPtr(5)},
		})
		require.NoError(t, err)
		assert.Equal(t, 1.0, catalog.Criteria()[0].Weight)
		assert.Equal(t, 1.0, catalog.MaxPossibleScore())
	})

	t.Run("rejects blank parameter", func(t *testing.T) {
		_, err := NewCatalog([]domain.Criterion{{Parameter: "   "}})
		require.Error(t, err)
		var vErr *domain.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "parameter", vErr.Field)
	})

	t.Run("rejects negative weight", func(t *testing.T) {
		_, err := NewCatalog([]domain.Criterion{
			{Parameter: "Revenue", Weight: floatPtr(-1)},
		})
		var vErr *domain.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "weight", vErr.Field)
	})

	t.Run("rejects interval score outside bounds", func(t *testing.T) {
		_, err := NewCatalog([]domain.Criterion{
			{Parameter: "Credit Score", ScoringIntervals: []domain.ScoringInterval{
				{Range: ">800", Score: 11},
			}},
		})
		var vErr *domain.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "scoring_intervals", vErr.Field)
	})

	t.Run("zero weight is allowed and contributes nothing", func(t *testing.T) {
		catalog, err := NewCatalog([]domain.Criterion{
			{Parameter: "Informational", Weight: floatPtr(0), MinValue: floatPtr(1)},
		})
		require.NoError(t, err)
		assert.Equal(t, 0.0, catalog.MaxPossibleScore())
	})
}

func TestSelectPolicy(t *testing.T) {
	tests := []struct {
		name string
		c    domain.Criterion
		want PolicyKind
	}{
		{"intervals win over thresholds", domain.Criterion{
			ScoringIntervals: []domain.ScoringInterval{{Range: ">1", Score: 10}},
			MinValue:         floatPtr(1),
		}, PolicyIntervals},
		{"thresholds win over preferred", domain.Criterion{
			MaxValue:       floatPtr(10),
			PreferredValue: strPtr("Yes"),
		}, PolicyThreshold},
		{"preferred when alone", domain.Criterion{
			PreferredValue: strPtr("Yes"),
		}, PolicyPreferred},
		{"blank preferred is no policy", domain.Criterion{
			PreferredValue: strPtr("  "),
		}, PolicyNone},
		{"nothing set", domain.Criterion{}, PolicyNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, selectPolicy(tt.c))
		})
	}
}

func TestCatalogLookup(t *testing.T) {
	catalog, err := NewCatalog([]domain.Criterion{
		{Parameter: "Annual Revenue", MinValue: floatPtr(100000)},
	})
	require.NoError(t, err)

	cc, ok := catalog.Lookup("annual revenue")
	require.True(t, ok)
	assert.Equal(t, "Annual Revenue", cc.Criterion.Parameter)

	_, ok = catalog.Lookup("ebitda")
	assert.False(t, ok)
}

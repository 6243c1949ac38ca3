package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryanv175/finance-dashboard-saksham/internal/domain"
)

func caseOf(id string, pairs ...any) domain.CaseRecord {
	m := domain.NewMetrics()
	for i := 0; i < len(pairs); i += 2 {
		m.Set(pairs[i].(string), pairs[i+1])
	}
	return domain.CaseRecord{CaseID: id, Metrics: m}
}

func TestCorrelationMatrix(t *testing.T) {
	t.Run("perfect positive and negative correlation", func(t *testing.T) {
		matrix := CorrelationMatrix([]domain.CaseRecord{
			caseOf("a", "Revenue", 100.0, "Profit", 10.0, "Debt", 50.0),
			caseOf("b", "Revenue", 200.0, "Profit", 20.0, "Debt", 40.0),
			caseOf("c", "Revenue", 300.0, "Profit", 30.0, "Debt", 30.0),
		})

		require.Equal(t, []string{"Revenue", "Profit", "Debt"}, matrix.Labels)

		diag := matrix.Data[0][0]
		require.NotNil(t, diag)
		assert.Equal(t, 1.0, *diag)

		revProfit := matrix.Data[0][1]
		require.NotNil(t, revProfit)
		assert.Equal(t, 1.0, *revProfit)

		revDebt := matrix.Data[0][2]
		require.NotNil(t, revDebt)
		assert.Equal(t, -1.0, *revDebt)

		// Matrix is symmetric.
		assert.Equal(t, *matrix.Data[1][0], *matrix.Data[0][1])
	})

	t.Run("non-numeric metrics are excluded", func(t *testing.T) {
		matrix := CorrelationMatrix([]domain.CaseRecord{
			caseOf("a", "Revenue", 100.0, "Rating", "Excellent"),
			caseOf("b", "Revenue", 200.0, "Rating", "Poor"),
		})
		assert.Equal(t, []string{"Revenue"}, matrix.Labels)
	})

	t.Run("fewer than two shared observations yields null", func(t *testing.T) {
		matrix := CorrelationMatrix([]domain.CaseRecord{
			caseOf("a", "Revenue", 100.0, "Profit", 10.0),
			caseOf("b", "Revenue", 200.0),
			caseOf("c", "Revenue", 300.0),
		})

		require.Equal(t, []string{"Revenue", "Profit"}, matrix.Labels)
		assert.Nil(t, matrix.Data[0][1])
		assert.Nil(t, matrix.Data[1][1])
		assert.NotNil(t, matrix.Data[0][0])
	})

	t.Run("zero variance yields null", func(t *testing.T) {
		matrix := CorrelationMatrix([]domain.CaseRecord{
			caseOf("a", "Revenue", 100.0, "Flat", 5.0),
			caseOf("b", "Revenue", 200.0, "Flat", 5.0),
		})
		assert.Nil(t, matrix.Data[0][1])
	})

	t.Run("metric names fold case-insensitively to first-seen spelling", func(t *testing.T) {
		matrix := CorrelationMatrix([]domain.CaseRecord{
			caseOf("a", "Revenue", 100.0),
			caseOf("b", "REVENUE", 200.0),
			caseOf("c", "revenue", 300.0),
		})
		assert.Equal(t, []string{"Revenue"}, matrix.Labels)
		require.NotNil(t, matrix.Data[0][0])
		assert.Equal(t, 1.0, *matrix.Data[0][0])
	})

	t.Run("no numeric metrics at all", func(t *testing.T) {
		matrix := CorrelationMatrix([]domain.CaseRecord{
			caseOf("a", "Rating", "Good"),
		})
		assert.Empty(t, matrix.Labels)
		assert.Empty(t, matrix.Data)
	})
}

func TestPearsonKnownValue(t *testing.T) {
	a := map[int]float64{0: 1, 1: 2, 2: 3, 3: 4}
	b := map[int]float64{0: 1.5, 1: 2.5, 2: 4.5, 3: 5.5}

	r := pearson(a, b)
	require.NotNil(t, r)
	assert.InDelta(t, 0.9899, *r, 0.0001)
}

package reconcile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildSupplierLedgerBucketPriority(t *testing.T) {
	rows := []Row{
		{
			"fornecedor": "Moda Sul",
			"codigo":     "7",
			"produtos": []any{
				// explicit paid amount outranks the stale flag
				map[string]any{"produto": "Blusa", "valor_entrada": 80.0, "pago": false, "valor_pago": 80.0},
				// explicit pending amount outranks the flag as well
				map[string]any{"produto": "Calça", "valor_entrada": 120.0, "pago": true, "valor_pendente": 120.0},
				// no amounts, flag decides
				map[string]any{"produto": "Saia", "valor_entrada": 50.0, "pago": true},
			},
		},
	}

	view := BuildSupplierLedger(rows)

	require.Len(t, view.Rows, 1)
	row := view.Rows[0]
	require.Equal(t, 130.0, row.SumPaid)
	require.Equal(t, 120.0, row.SumPending)
	require.Len(t, row.Products, 3)
}

func TestBuildSupplierLedgerContributionIsAlwaysEntryCost(t *testing.T) {
	rows := []Row{
		{
			"fornecedor": "Atacado Norte",
			"produtos": []any{
				// partial payment still books the full entry cost
				map[string]any{"produto": "Vestido", "valor_entrada": 200.0, "valor_pago": 50.0},
			},
		},
	}

	view := BuildSupplierLedger(rows)

	require.Equal(t, 200.0, view.Rows[0].SumPaid)
	require.Zero(t, view.Rows[0].SumPending)
}

func TestBuildSupplierLedgerDecodesJSONDetail(t *testing.T) {
	rows := []Row{
		{
			"fornecedor": "Teia Fina",
			"produtos":   `[{"produto":"Cinto","valor_entrada":"35,90","pago":"sim"}]`,
		},
	}

	view := BuildSupplierLedger(rows)

	require.Len(t, view.Rows[0].Products, 1)
	require.Equal(t, "Cinto", view.Rows[0].Products[0].Name)
	require.InDelta(t, 35.9, view.Rows[0].SumPaid, 1e-9)
}

func TestBuildSupplierLedgerGarbledDetailDegrades(t *testing.T) {
	rows := []Row{
		{"fornecedor": "", "produtos": "{{not json"},
		{"produtos": []any{map[string]any{"valor_entrada": "abc"}}},
	}

	view := BuildSupplierLedger(rows)

	require.Len(t, view.Rows, 2)
	require.Equal(t, "Desconhecido", view.Rows[0].SupplierLabel)
	require.Empty(t, view.Rows[0].Products)
	require.Equal(t, "-", view.Rows[1].Products[0].Name)
	require.Zero(t, view.Rows[1].SumPaid+view.Rows[1].SumPending)
}

func TestBuildSupplierLedgerNumericCodesSortFirst(t *testing.T) {
	rows := []Row{
		{"fornecedor": "D", "codigo": "B"},
		{"fornecedor": "A", "codigo": "10"},
		{"fornecedor": "C", "codigo": "A"},
		{"fornecedor": "B", "codigo": "2"},
	}

	view := BuildSupplierLedger(rows)

	var codes []string
	for _, row := range view.Rows {
		codes = append(codes, row.SupplierCode)
	}
	require.Equal(t, []string{"2", "10", "A", "B"}, codes, "numeric codes compare as numbers, before lexical codes")
}

package reconcile

import (
	"encoding/json"
	"sort"
	"strconv"
)

// BuildSupplierLedger converts raw supplier payment rows into the sorted
// ledger. Product detail entries are parsed defensively: a garbled detail
// degrades to zeros and a placeholder name rather than dropping the row.
func BuildSupplierLedger(rows []Row) SupplierLedgerView {
	out := make([]SupplierLedgerRow, 0, len(rows))
	for _, row := range rows {
		label, _ := pick(row, "fornecedor", "supplier", "nome", "name")
		code, _ := pick(row, "cod_fornecedor", "supplier_code", "codigo", "code")

		ledgerRow := SupplierLedgerRow{
			SupplierLabel: displayOr(asString(label), "Desconhecido"),
			SupplierCode:  asString(code),
		}

		detail, _ := pick(row, "produtos", "products", "detalhe", "detail")
		for _, entry := range detailEntries(detail) {
			product := parseSupplierProduct(entry)
			ledgerRow.Products = append(ledgerRow.Products, product)
			if bucketPaid(entry, product.Paid) {
				ledgerRow.SumPaid += product.EntryCost
			} else {
				ledgerRow.SumPending += product.EntryCost
			}
		}
		out = append(out, ledgerRow)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return supplierCodeLess(out[i], out[j])
	})
	return SupplierLedgerView{Rows: out}
}

// detailEntries accepts the nested product list however the feed delivers
// it: already-decoded slices, raw JSON bytes, or a JSON string.
func detailEntries(detail any) []Row {
	switch v := detail.(type) {
	case nil:
		return nil
	case []Row:
		return v
	case []any:
		out := make([]Row, 0, len(v))
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	case []byte:
		return decodeDetailJSON(v)
	case string:
		return decodeDetailJSON([]byte(v))
	}
	return nil
}

func decodeDetailJSON(data []byte) []Row {
	var entries []Row
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil
	}
	return entries
}

func parseSupplierProduct(entry Row) SupplierProduct {
	name, _ := pick(entry, "produto", "product", "descricao", "name")
	cost, _ := pick(entry, "valor_entrada", "entry_cost", "custo")
	paid, _ := pick(entry, "pago", "paid", "pago_fornecedor")
	return SupplierProduct{
		Name:      displayOr(asString(name), "-"),
		EntryCost: asFloat(cost),
		Paid:      asBool(paid),
	}
}

// bucketPaid decides the paid-versus-pending bucket: an explicit paid or
// pending amount wins, the boolean flag is the fallback.
func bucketPaid(entry Row, paidFlag bool) bool {
	if v, ok := pick(entry, "valor_pago", "paid_amount"); ok {
		if amount := asFloat(v); amount > 0 {
			return true
		}
	}
	if v, ok := pick(entry, "valor_pendente", "pending_amount"); ok {
		if amount := asFloat(v); amount > 0 {
			return false
		}
	}
	return paidFlag
}

// supplierCodeLess orders numeric display codes numerically and before any
// non-numeric code; ties and non-numeric codes compare lexically, with the
// supplier name breaking exact code ties.
func supplierCodeLess(a, b SupplierLedgerRow) bool {
	an, aNum := strconv.Atoi(a.SupplierCode)
	bn, bNum := strconv.Atoi(b.SupplierCode)
	switch {
	case aNum == nil && bNum == nil:
		if an != bn {
			return an < bn
		}
	case aNum == nil:
		return true
	case bNum == nil:
		return false
	default:
		if a.SupplierCode != b.SupplierCode {
			return a.SupplierCode < b.SupplierCode
		}
	}
	return a.SupplierLabel < b.SupplierLabel
}

func displayOr(s, placeholder string) string {
	if s == "" {
		return placeholder
	}
	return s
}

// Package ubl holds the lookup keys for UBL document fields that templates
// and rule sets read from their data model.
package ubl

// Lookup keys of UBL document fields.
const (
	IGVKey       = "openubl.igv"
	ICBKey       = "openubl.icb"
	Moneda       = "openubl.moneda"
	UnidadMedida = "openubl.unidadMedida"
	TipoIGV      = "openubl.tipoIgv"
)

var keys = []string{IGVKey, ICBKey, Moneda, UnidadMedida, TipoIGV}

// Keys returns every lookup key in declaration order.
func Keys() []string {
	out := make([]string, len(keys))
	copy(out, keys)
	return out
}

// IsKey reports whether s is one of the lookup keys.
func IsKey(s string) bool {
	for _, k := range keys {
		if k == s {
			return true
		}
	}
	return false
}

// Package orderkey derives stable order identifiers from header fields.
//
// The digest is part of the stored data: every orderId already written to a
// session was produced with DigestVersion, so changing the algorithm or the
// digest width requires migrating those ids.
package orderkey

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"salesmini/internal"
	"salesmini/internal/util"
)

const (
	DigestVersion = "sha1-8"
	IDPrefix      = "ORD-"

	digestHexLen = 8
	delimiter    = "|"
)

var ErrDigestMismatch = errors.New("stored orders were keyed with a different digest version")

// KeyColumns lists the key-contributing header columns in key order.
var KeyColumns = []string{
	internal.ColOrdererCompanyName,
	internal.ColOrdererPersonName,
	internal.ColSubTotalPrice,
	internal.ColTaxAmount,
	internal.ColTotalPrice,
}

// Fields is the identifying header tuple of one order. A nil pointer or an
// invalid decimal means the column is not part of the key at all; a present
// but empty value still contributes an empty part.
type Fields struct {
	CompanyName *string
	PersonName  *string
	SubTotal    *decimal.NullDecimal
	Tax         *decimal.NullDecimal
	Total       *decimal.NullDecimal
}

// Key joins the present fields in KeyColumns order. Parts are escaped so
// that no value can forge a delimiter.
func (f Fields) Key() string {
	parts := make([]string, 0, len(KeyColumns))
	addText := func(v *string) {
		if v != nil {
			parts = append(parts, escape(*v))
		}
	}
	addMoney := func(v *decimal.NullDecimal) {
		if v == nil {
			return
		}
		if !v.Valid {
			parts = append(parts, "")
			return
		}
		parts = append(parts, escape(v.Decimal.String()))
	}
	addText(f.CompanyName)
	addText(f.PersonName)
	addMoney(f.SubTotal)
	addMoney(f.Tax)
	addMoney(f.Total)
	return strings.Join(parts, delimiter)
}

// Blank reports whether no field carries a value, so the key would not
// tell one order from another.
func (f Fields) Blank() bool {
	for _, v := range []*string{f.CompanyName, f.PersonName} {
		if v != nil && strings.TrimSpace(*v) != "" {
			return false
		}
	}
	for _, v := range []*decimal.NullDecimal{f.SubTotal, f.Tax, f.Total} {
		if v != nil && v.Valid {
			return false
		}
	}
	return true
}

// FieldsOf picks the key fields of a forward-filled row. Only columns listed
// in present take part, so every row of one batch shares the same key shape.
func FieldsOf(row internal.RawRow, present map[string]bool) Fields {
	text := func(col string) *string {
		if !present[col] {
			return nil
		}
		v := row[col]
		return &v
	}
	money := func(col string) *decimal.NullDecimal {
		if !present[col] {
			return nil
		}
		v := util.ParseMoney(row[col])
		return &v
	}
	return Fields{
		CompanyName: text(internal.ColOrdererCompanyName),
		PersonName:  text(internal.ColOrdererPersonName),
		SubTotal:    money(internal.ColSubTotalPrice),
		Tax:         money(internal.ColTaxAmount),
		Total:       money(internal.ColTotalPrice),
	}
}

// DeriveOrderID hashes a key into "ORD-" plus 8 upper-case hex digits.
func DeriveOrderID(key string) string {
	sum := sha1.Sum([]byte(key))
	return IDPrefix + strings.ToUpper(hex.EncodeToString(sum[:]))[:digestHexLen]
}

// ForFields is DeriveOrderID over a hand-built header tuple.
func ForFields(f Fields) string {
	return DeriveOrderID(f.Key())
}

func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, delimiter, `\`+delimiter)
}

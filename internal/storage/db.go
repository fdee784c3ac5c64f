package storage

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"salesmini/internal"
	"salesmini/internal/orderkey"
)

var ErrOrderNotFound = errors.New("order not found")

const (
	MetaKeyVersion = "orderkey.version"
	MetaTaxRate    = "session.tax_rate"
)

// DB keeps the session in SQLite so separate CLI invocations see the same
// orders. Use ":memory:" for a throwaway session.
type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// every pooled connection to ":memory:" would get its own database
	conn.SetMaxOpenConns(1)

	if path != ":memory:" {
		if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
			_ = conn.Close()
			return nil, err
		}
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS orders (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  orderId TEXT NOT NULL UNIQUE,
  companyName TEXT,
  department TEXT,
  personName TEXT,
  postalCode TEXT,
  address TEXT,
  tel TEXT,
  fax TEXT,
  email TEXT,
  subTotalPrice TEXT,
  taxAmount TEXT,
  totalPrice TEXT,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS items (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  orderId TEXT NOT NULL,
  lineNo INTEGER NOT NULL,
  name TEXT NOT NULL,
  num TEXT,
  date TEXT,
  quantityUnit TEXT,
  taxInfo TEXT,
  etc TEXT,
  count TEXT,
  discount TEXT,
  taxExcludedUnitPrice TEXT,
  taxExcludedPrice TEXT,
  taxIncludedUnitPrice TEXT,
  taxIncludedPrice TEXT,
  taxAmount TEXT,
  FOREIGN KEY(orderId) REFERENCES orders(orderId)
);
CREATE INDEX IF NOT EXISTS idx_items_orderId ON items(orderId);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	if _, err := d.conn.Exec(schema); err != nil {
		return err
	}
	_, err := d.conn.Exec(`INSERT OR IGNORE INTO metadata (key, value) VALUES (?, ?)`, MetaKeyVersion, orderkey.DigestVersion)
	return err
}

// AppendBatch adds a normalized batch. An order whose id is already stored
// is replaced together with all of its items.
func (d *DB) AppendBatch(orders []internal.Order, items []internal.Item) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, o := range orders {
		if err := deleteOrderTx(tx, o.OrderID); err != nil {
			return err
		}
		if err := insertOrderTx(tx, o); err != nil {
			return err
		}
	}
	if err := insertItemsTx(tx, items); err != nil {
		return err
	}

	return tx.Commit()
}

// ReplaceOrder rewrites one order header and swaps its item rows.
func (d *DB) ReplaceOrder(order internal.Order, items []internal.Item) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := updateOrderTx(tx, order); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM items WHERE orderId = ?`, order.OrderID); err != nil {
		return err
	}
	if err := insertItemsTx(tx, withOrderID(items, order.OrderID)); err != nil {
		return err
	}

	return tx.Commit()
}

func (d *DB) UpdateOrder(order internal.Order) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := updateOrderTx(tx, order); err != nil {
		return err
	}
	return tx.Commit()
}

func (d *DB) ListOrders() ([]internal.Order, error) {
	rows, err := d.conn.Query(`SELECT ` + orderSelectCols + ` FROM orders ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (d *DB) GetOrder(orderID string) (*internal.Order, error) {
	o, err := scanOrder(d.conn.QueryRow(`SELECT `+orderSelectCols+` FROM orders WHERE orderId = ?`, orderID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// ListItems returns the items of one order, or of all orders when orderID
// is empty, in order insertion then line order.
func (d *DB) ListItems(orderID string) ([]internal.Item, error) {
	query := `
SELECT i.orderId, i.lineNo, i.name, i.num, i.date, i.quantityUnit, i.taxInfo, i.etc,
       i.count, i.discount, i.taxExcludedUnitPrice, i.taxExcludedPrice,
       i.taxIncludedUnitPrice, i.taxIncludedPrice, i.taxAmount
FROM items i
JOIN orders o ON o.orderId = i.orderId
WHERE (? = '' OR i.orderId = ?)
ORDER BY o.seq ASC, i.id ASC`
	rows, err := d.conn.Query(query, orderID, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.Item
	for rows.Next() {
		var it internal.Item
		if err := rows.Scan(
			&it.OrderID, &it.LineNo, &it.Name, &it.Num, &it.Date, &it.QuantityUnit, &it.TaxInfo, &it.Etc,
			&it.Count, &it.Discount, &it.TaxExcludedUnitPrice, &it.TaxExcludedPrice,
			&it.TaxIncludedUnitPrice, &it.TaxIncludedPrice, &it.TaxAmount,
		); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (d *DB) Clear() error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM items`); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM orders`); err != nil {
		return err
	}
	return tx.Commit()
}

// KeyVersion reports the digest version the stored ids were derived with.
func (d *DB) KeyVersion() (string, error) {
	v, err := d.GetMetadata(MetaKeyVersion)
	if err != nil {
		return "", err
	}
	if v == nil {
		return orderkey.DigestVersion, nil
	}
	return *v, nil
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}

const orderSelectCols = `orderId, companyName, department, personName, postalCode, address, tel, fax, email,
       subTotalPrice, taxAmount, totalPrice`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(r rowScanner) (internal.Order, error) {
	var o internal.Order
	err := r.Scan(
		&o.OrderID, &o.CompanyName, &o.Department, &o.PersonName, &o.PostalCode, &o.Address, &o.Tel, &o.Fax, &o.Email,
		&o.SubTotalPrice, &o.TaxAmount, &o.TotalPrice,
	)
	return o, err
}

func deleteOrderTx(tx *sql.Tx, orderID string) error {
	if _, err := tx.Exec(`DELETE FROM items WHERE orderId = ?`, orderID); err != nil {
		return err
	}
	_, err := tx.Exec(`DELETE FROM orders WHERE orderId = ?`, orderID)
	return err
}

func insertOrderTx(tx *sql.Tx, o internal.Order) error {
	_, err := tx.Exec(`
INSERT INTO orders (orderId, companyName, department, personName, postalCode, address, tel, fax, email,
                    subTotalPrice, taxAmount, totalPrice)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, o.OrderID, o.CompanyName, o.Department, o.PersonName, o.PostalCode, o.Address, o.Tel, o.Fax, o.Email,
		o.SubTotalPrice, o.TaxAmount, o.TotalPrice)
	return err
}

func updateOrderTx(tx *sql.Tx, o internal.Order) error {
	res, err := tx.Exec(`
UPDATE orders SET
  companyName = ?, department = ?, personName = ?, postalCode = ?, address = ?, tel = ?, fax = ?, email = ?,
  subTotalPrice = ?, taxAmount = ?, totalPrice = ?, updatedAt = CURRENT_TIMESTAMP
WHERE orderId = ?
`, o.CompanyName, o.Department, o.PersonName, o.PostalCode, o.Address, o.Tel, o.Fax, o.Email,
		o.SubTotalPrice, o.TaxAmount, o.TotalPrice, o.OrderID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func insertItemsTx(tx *sql.Tx, items []internal.Item) error {
	if len(items) == 0 {
		return nil
	}
	stmt, err := tx.Prepare(`
INSERT INTO items (
  orderId, lineNo, name, num, date, quantityUnit, taxInfo, etc,
  count, discount, taxExcludedUnitPrice, taxExcludedPrice,
  taxIncludedUnitPrice, taxIncludedPrice, taxAmount
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, it := range items {
		if _, err := stmt.Exec(
			it.OrderID, it.LineNo, it.Name, it.Num, it.Date, it.QuantityUnit, it.TaxInfo, it.Etc,
			it.Count, it.Discount, it.TaxExcludedUnitPrice, it.TaxExcludedPrice,
			it.TaxIncludedUnitPrice, it.TaxIncludedPrice, it.TaxAmount,
		); err != nil {
			return err
		}
	}
	return nil
}

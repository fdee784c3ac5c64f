package pipeline

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"salesmini/internal"
	"salesmini/internal/logging"
	"salesmini/internal/orderkey"
	"salesmini/internal/storage"
	"salesmini/internal/util"
)

// SessionStore holds the current Orders and Items between interactions.
type SessionStore interface {
	AppendBatch(orders []internal.Order, items []internal.Item) error
	ReplaceOrder(order internal.Order, items []internal.Item) error
	UpdateOrder(order internal.Order) error
	ListOrders() ([]internal.Order, error)
	GetOrder(orderID string) (*internal.Order, error)
	ListItems(orderID string) ([]internal.Item, error)
	Clear() error
	KeyVersion() (string, error)
}

type ImportService struct {
	store SessionStore
	log   *zap.Logger
}

func NewImportService(store SessionStore, log *zap.Logger) *ImportService {
	return &ImportService{store: store, log: logging.OrNop(log)}
}

type ImportResult struct {
	Orders        int
	Items         int
	ParseWarnings int
}

// ImportFile reads one uploaded file and imports it.
func (s *ImportService) ImportFile(inputType, path, encoding string) (ImportResult, error) {
	table, err := ReadInput(inputType, path, encoding)
	if err != nil {
		return ImportResult{}, fmt.Errorf("read %s: %w", path, err)
	}
	return s.Import(table)
}

// Import normalizes a table and appends it to the session. The session is
// left unchanged when any step fails.
func (s *ImportService) Import(table internal.RawTable) (ImportResult, error) {
	start := time.Now()
	if err := s.checkKeyVersion(); err != nil {
		return ImportResult{}, err
	}

	res, err := Normalize(table)
	if err != nil {
		return ImportResult{}, err
	}
	if res.ParseWarnings > 0 {
		s.log.Warn("unparseable amounts treated as missing", zap.Int("cells", res.ParseWarnings))
	}

	if err := s.store.AppendBatch(res.Orders, res.Items); err != nil {
		return ImportResult{}, fmt.Errorf("store batch: %w", err)
	}
	s.log.Info("import done",
		zap.Int("rows", len(table.Rows)),
		zap.Int("orders", len(res.Orders)),
		zap.Int("items", len(res.Items)),
		zap.Duration("took", time.Since(start)),
	)
	return ImportResult{Orders: len(res.Orders), Items: len(res.Items), ParseWarnings: res.ParseWarnings}, nil
}

// AddManual registers a hand-entered order.
func (s *ImportService) AddManual(in ManualOrder, taxRate decimal.Decimal) (internal.Order, error) {
	if err := s.checkKeyVersion(); err != nil {
		return internal.Order{}, err
	}
	order, items := BuildManualOrder(in, taxRate)
	if err := s.store.AppendBatch([]internal.Order{order}, items); err != nil {
		return internal.Order{}, err
	}
	s.log.Info("manual order added", zap.String("orderId", order.OrderID), zap.Int("items", len(items)))
	return order, nil
}

func (s *ImportService) checkKeyVersion() error {
	v, err := s.store.KeyVersion()
	if err != nil {
		return err
	}
	if v != orderkey.DigestVersion {
		return fmt.Errorf("%w: stored=%s current=%s", orderkey.ErrDigestMismatch, v, orderkey.DigestVersion)
	}
	return nil
}

type EditService struct {
	store SessionStore
	log   *zap.Logger
}

func NewEditService(store SessionStore, log *zap.Logger) *EditService {
	return &EditService{store: store, log: logging.OrNop(log)}
}

// SaveItems replaces an order's items and recomputes its totals.
func (s *EditService) SaveItems(orderID string, items []internal.Item, taxRate decimal.Decimal) (internal.Order, error) {
	order, err := s.mustOrder(orderID)
	if err != nil {
		return internal.Order{}, err
	}

	items = RecomputeLinePrices(items)
	for i := range items {
		items[i].OrderID = orderID
		if items[i].LineNo == 0 {
			items[i].LineNo = i + 1
		}
	}
	totals := RecomputeTotals(items, taxRate)
	ApplyTotals(&order, totals)

	if err := s.store.ReplaceOrder(order, items); err != nil {
		return internal.Order{}, err
	}
	s.log.Info("items saved",
		zap.String("orderId", orderID),
		zap.Int("items", len(items)),
		zap.String("subtotal", totals.SubTotal.String()),
		zap.String("tax", totals.Tax.String()),
		zap.String("total", totals.Total.String()),
	)
	return order, nil
}

// HeaderEdit carries the header form. Nil fields are left unchanged;
// amounts go through the tolerant money parser.
type HeaderEdit struct {
	CompanyName *string
	PersonName  *string
	SubTotal    *string
	Tax         *string
	Total       *string
}

func (s *EditService) SaveHeader(orderID string, edit HeaderEdit) (internal.Order, error) {
	order, err := s.mustOrder(orderID)
	if err != nil {
		return internal.Order{}, err
	}
	if edit.CompanyName != nil {
		order.CompanyName = util.OptString(*edit.CompanyName)
	}
	if edit.PersonName != nil {
		order.PersonName = util.OptString(*edit.PersonName)
	}
	if edit.SubTotal != nil {
		order.SubTotalPrice = util.ParseMoney(*edit.SubTotal)
	}
	if edit.Tax != nil {
		order.TaxAmount = util.ParseMoney(*edit.Tax)
	}
	if edit.Total != nil {
		order.TotalPrice = util.ParseMoney(*edit.Total)
	}
	if err := s.store.UpdateOrder(order); err != nil {
		return internal.Order{}, err
	}
	s.log.Info("header saved", zap.String("orderId", orderID))
	return order, nil
}

func (s *EditService) mustOrder(orderID string) (internal.Order, error) {
	order, err := s.store.GetOrder(orderID)
	if err != nil {
		return internal.Order{}, err
	}
	if order == nil {
		return internal.Order{}, fmt.Errorf("%w: %s", storage.ErrOrderNotFound, orderID)
	}
	return *order, nil
}

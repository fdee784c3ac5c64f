package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"salesmini/internal/config"
	"salesmini/internal/logging"
	"salesmini/internal/pipeline"
	"salesmini/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	must(err)
	defer func() { _ = log.Sync() }()

	cmd := os.Args[1]
	if cmd == "run" {
		runOnce(cfg, log, os.Args[2:])
		return
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	switch cmd {
	case "import":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "csv|xlsx|html|eml file")
		inType := fs.String("type", "", "csv|xlsx|html|eml (default: from extension)")
		encoding := fs.String("encoding", cfg.InputEncoding, "auto|utf-8|shift_jis")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*input) == "" {
			must(fmt.Errorf("--input is required"))
		}
		svc := pipeline.NewImportService(db, log)
		res, err := svc.ImportFile(*inType, *input, *encoding)
		must(err)
		fmt.Printf("import done orders=%d items=%d warnings=%d\n", res.Orders, res.Items, res.ParseWarnings)
	case "orders":
		orders, err := db.ListOrders()
		must(err)
		printSummary(os.Stdout, pipeline.Summarize(orders))
		printOrders(os.Stdout, orders)
	case "show":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		orderID := fs.String("orderId", "", "order id")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*orderID) == "" {
			must(fmt.Errorf("--orderId is required"))
		}
		order, err := db.GetOrder(*orderID)
		must(err)
		if order == nil {
			must(fmt.Errorf("%w: %s", storage.ErrOrderNotFound, *orderID))
		}
		items, err := db.ListItems(*orderID)
		must(err)
		printOrderDetail(os.Stdout, *order, items)
	case "add":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		company := fs.String("company", "", "orderer company name")
		person := fs.String("person", "", "orderer person name")
		taxRate := fs.String("tax-rate", "", "tax rate, e.g. 0.10")
		var lines lineFlags
		fs.Var(&lines, "item", "name|num|count|unitPrice|unit (repeatable)")
		_ = fs.Parse(os.Args[2:])
		if len(lines) == 0 {
			must(fmt.Errorf("at least one --item is required"))
		}
		rate, err := resolveTaxRate(db, cfg, *taxRate)
		must(err)
		svc := pipeline.NewImportService(db, log)
		order, err := svc.AddManual(pipeline.ManualOrder{CompanyName: *company, PersonName: *person, Lines: lines}, rate)
		must(err)
		fmt.Printf("order added id=%s total=%s\n", order.OrderID, order.TotalPrice.Decimal.String())
	case "items:save":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		orderID := fs.String("orderId", "", "order id")
		input := fs.String("input", "", "csv|xlsx file with item columns")
		encoding := fs.String("encoding", cfg.InputEncoding, "auto|utf-8|shift_jis")
		taxRate := fs.String("tax-rate", "", "tax rate, e.g. 0.10")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*orderID) == "" || strings.TrimSpace(*input) == "" {
			must(fmt.Errorf("--orderId and --input are required"))
		}
		table, err := pipeline.ReadInput("", *input, *encoding)
		must(err)
		items, err := pipeline.ItemsFromTable(table, *orderID)
		must(err)
		rate, err := resolveTaxRate(db, cfg, *taxRate)
		must(err)
		svc := pipeline.NewEditService(db, log)
		order, err := svc.SaveItems(*orderID, items, rate)
		must(err)
		fmt.Printf("items saved id=%s items=%d total=%s\n", order.OrderID, len(items), order.TotalPrice.Decimal.String())
	case "header:save":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		orderID := fs.String("orderId", "", "order id")
		company := fs.String("company", "", "orderer company name")
		person := fs.String("person", "", "orderer person name")
		subTotal := fs.String("subtotal", "", "subtotal amount")
		tax := fs.String("tax", "", "tax amount")
		total := fs.String("total", "", "total amount")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*orderID) == "" {
			must(fmt.Errorf("--orderId is required"))
		}
		var edit pipeline.HeaderEdit
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "company":
				edit.CompanyName = company
			case "person":
				edit.PersonName = person
			case "subtotal":
				edit.SubTotal = subTotal
			case "tax":
				edit.Tax = tax
			case "total":
				edit.Total = total
			}
		})
		svc := pipeline.NewEditService(db, log)
		order, err := svc.SaveHeader(*orderID, edit)
		must(err)
		fmt.Printf("header saved id=%s\n", order.OrderID)
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		out := fs.String("out", filepath.Join(cfg.OutputDir, "session.xlsx"), "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		orders, err := db.ListOrders()
		must(err)
		if len(orders) == 0 {
			must(fmt.Errorf("session has no orders"))
		}
		items, err := db.ListItems("")
		must(err)
		must(pipeline.ExportXLSX(orders, items, *out))
		fmt.Printf("exported orders=%d items=%d to %s\n", len(orders), len(items), *out)
	case "clear":
		must(db.Clear())
		fmt.Println("session cleared")
	default:
		usage()
		os.Exit(1)
	}
}

// runOnce normalizes one file and exports it without touching the session db.
func runOnce(cfg config.Config, log *zap.Logger, args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	input := fs.String("input", "", "input file path")
	inType := fs.String("type", "", "csv|xlsx|html|eml (default: from extension)")
	encoding := fs.String("encoding", cfg.InputEncoding, "auto|utf-8|shift_jis")
	output := fs.String("output", "", "output xlsx path")
	_ = fs.Parse(args)
	if *input == "" || *output == "" {
		must(fmt.Errorf("--input --output are required"))
	}

	store := storage.NewMemoryStore()
	svc := pipeline.NewImportService(store, log)
	_, err := svc.ImportFile(*inType, *input, *encoding)
	must(err)
	orders, err := store.ListOrders()
	must(err)
	items, err := store.ListItems("")
	must(err)
	must(pipeline.ExportXLSX(orders, items, *output))
	fmt.Printf("run done orders=%d items=%d output=%s\n", len(orders), len(items), *output)
}

// resolveTaxRate prefers the flag, then the rate saved for the session,
// then the configured default. A rate given on the flag is saved.
func resolveTaxRate(db *storage.DB, cfg config.Config, value string) (decimal.Decimal, error) {
	if strings.TrimSpace(value) != "" {
		rate, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid --tax-rate %q: %w", value, err)
		}
		if err := config.ValidateTaxRate(rate); err != nil {
			return decimal.Zero, err
		}
		return rate, db.SetMetadata(storage.MetaTaxRate, rate.String())
	}
	saved, err := db.GetMetadata(storage.MetaTaxRate)
	if err != nil {
		return decimal.Zero, err
	}
	if saved != nil {
		if rate, err := decimal.NewFromString(*saved); err == nil {
			return rate, nil
		}
	}
	return cfg.TaxRate, nil
}

// lineFlags collects repeated --item values.
type lineFlags []pipeline.ManualLine

func (l *lineFlags) String() string {
	names := make([]string, 0, len(*l))
	for _, line := range *l {
		names = append(names, line.Name)
	}
	return strings.Join(names, ",")
}

func (l *lineFlags) Set(value string) error {
	parts := strings.Split(value, "|")
	if len(parts) > 5 {
		return fmt.Errorf("item %q has more than 5 fields", value)
	}
	for len(parts) < 5 {
		parts = append(parts, "")
	}
	*l = append(*l, pipeline.ManualLine{
		Name:      strings.TrimSpace(parts[0]),
		Num:       strings.TrimSpace(parts[1]),
		Count:     strings.TrimSpace(parts[2]),
		UnitPrice: strings.TrimSpace(parts[3]),
		Unit:      strings.TrimSpace(parts[4]),
	})
	return nil
}

func usage() {
	fmt.Println("usage: salesmini <command>")
	fmt.Println("commands:")
	fmt.Println("  import --input=orders.csv [--type=csv|xlsx|html|eml] [--encoding=auto]")
	fmt.Println("  orders")
	fmt.Println("  show --orderId=ORD-XXXXXXXX")
	fmt.Println("  add --company=... --person=... --item='name|num|count|unitPrice|unit' [--tax-rate=0.10]")
	fmt.Println("  items:save --orderId=... --input=items.csv [--tax-rate=0.10]")
	fmt.Println("  header:save --orderId=... [--company=] [--person=] [--subtotal=] [--tax=] [--total=]")
	fmt.Println("  export:xlsx [--out=./out/session.xlsx]")
	fmt.Println("  clear")
	fmt.Println("  run --input=... --output=...xlsx")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

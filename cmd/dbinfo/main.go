// Command dbinfo prints the tables of the sales database with their row
// counts, followed by the top customers and products by revenue as computed
// by the source queries.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"salesetl/internal/config"
	"salesetl/internal/infrastructure"
	"salesetl/internal/source"
	"salesetl/pkg/contracts/domain"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	flags := flag.NewFlagSet("dbinfo", flag.ContinueOnError)
	top := flags.Int("top", 5, "number of customers and products to list")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stdout, "Configuration error: %v\n", err)
		return 1
	}
	paths, err := config.GetPaths()
	if err != nil {
		fmt.Fprintf(stdout, "Failed to resolve paths: %v\n", err)
		return 1
	}
	cfg.Source.Path = paths.Resolve(cfg.Source.Path)

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(stdout, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer infrastructure.CloseLogFile()

	ctx := context.Background()
	src, err := source.Open(ctx, cfg.Source, logger)
	if err != nil {
		fmt.Fprintf(stdout, "Error: %v\n", err)
		return 1
	}
	defer src.Close()

	tables, err := src.DatabaseInfo(ctx)
	if err != nil {
		fmt.Fprintf(stdout, "Error: %v\n", err)
		return 1
	}
	customers, err := src.ExtractCustomersSummary(ctx)
	if err != nil {
		fmt.Fprintf(stdout, "Error: %v\n", err)
		return 1
	}
	products, err := src.ExtractProductsSummary(ctx)
	if err != nil {
		fmt.Fprintf(stdout, "Error: %v\n", err)
		return 1
	}

	printTables(stdout, tables)
	printCustomers(stdout, customers, *top)
	printProducts(stdout, products, *top)
	return 0
}

var printer = message.NewPrinter(language.English)

func printTables(w io.Writer, tables []domain.TableInfo) {
	fmt.Fprintln(w, "DATABASE TABLES")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Table\tRows\t")
	for _, t := range tables {
		fmt.Fprintf(tw, "%s\t%s\t\n", t.Name, printer.Sprintf("%d", t.Rows))
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func printCustomers(w io.Writer, customers []domain.CustomerSummary, n int) {
	fmt.Fprintf(w, "TOP %d CUSTOMERS\n", n)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CustomerID\tCompany\tCountry\tOrders\tRevenue\tLast Order")
	for _, c := range customers[:min(n, len(customers))] {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			c.CustomerID, c.CompanyName.String, c.Country.String, c.TotalOrders,
			printer.Sprintf("$%.2f", c.TotalRevenue.Float64), c.LastOrderDate.String)
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func printProducts(w io.Writer, products []domain.ProductSummary, n int) {
	fmt.Fprintf(w, "TOP %d PRODUCTS\n", n)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Product\tCategory\tSupplier\tUnits Sold\tRevenue\tAvg Price")
	for _, p := range products[:min(n, len(products))] {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ProductName.String, p.CategoryName.String, p.SupplierName.String,
			printer.Sprintf("%d", p.TotalUnitsSold.Int64),
			printer.Sprintf("$%.2f", p.TotalRevenue.Float64),
			printer.Sprintf("$%.2f", p.AvgSellingPrice.Float64))
	}
	tw.Flush()
}

// Command azure-pricing answers questions about Azure retail pricing from the
// command line: structured search, price comparison, cost estimation, and SKU
// discovery with fuzzy service-name resolution. Results print as JSON.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/costwise/azure-pricing/internal/catalog"
	"github.com/costwise/azure-pricing/internal/engine"
)

var (
	cfgFile string
	cfg     Config
	logger  zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "azure-pricing",
	Short: "Query Azure retail prices",
	Long: `azure-pricing queries the public Azure retail price catalog.

It supports structured search with filters, cross-region and cross-SKU price
comparison, usage-based cost estimation with savings plan breakdowns, and SKU
discovery with fuzzy service-name matching ("vm" resolves to "Virtual
Machines").

Examples:
  azure-pricing search --service "Virtual Machines" --region eastus --limit 5
  azure-pricing compare --service "Virtual Machines" --sku D2s --regions eastus,westus
  azure-pricing estimate --service "Virtual Machines" --sku D2s_v3 --region eastus
  azure-pricing discover "app service"`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig(cfgFile)
		if err != nil {
			return err
		}

		level, err := zerolog.ParseLevel(cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
		}
		logger = zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
		return nil
	},
}

// withEngine runs fn with an engine scoped to this invocation. The catalog
// client is created per call and released on every exit path.
func withEngine(fn func(context.Context, *engine.Engine) (any, error)) error {
	client := catalog.NewClient(logger, catalog.WithBaseURL(cfg.BaseURL))
	defer client.Close()

	eng := engine.New(client, logger, engine.WithPolicy(cfg.enginePolicy()))

	result, err := fn(context.Background(), eng)
	if err != nil {
		return err
	}
	return printJSON(result)
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func newSearchCmd() *cobra.Command {
	var req engine.SearchRequest
	var fuzzy bool

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search retail prices with filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.CurrencyCode == "" {
				req.CurrencyCode = cfg.Currency
			}
			return withEngine(func(ctx context.Context, eng *engine.Engine) (any, error) {
				if fuzzy {
					return eng.SearchFuzzy(ctx, req)
				}
				return eng.Search(ctx, req)
			})
		},
	}

	cmd.Flags().StringVar(&req.ServiceName, "service", "", "service name (e.g. 'Virtual Machines')")
	cmd.Flags().StringVar(&req.ServiceFamily, "family", "", "service family (e.g. 'Compute')")
	cmd.Flags().StringVar(&req.Region, "region", "", "ARM region name (e.g. 'eastus')")
	cmd.Flags().StringVar(&req.SkuName, "sku", "", "SKU name substring")
	cmd.Flags().StringVar(&req.PriceType, "price-type", "", "price type (Consumption, Reservation, DevTestConsumption)")
	cmd.Flags().StringVar(&req.CurrencyCode, "currency", "", "currency code (default USD)")
	cmd.Flags().IntVar(&req.Limit, "limit", catalog.DefaultLimit, "maximum results")
	cmd.Flags().Float64Var(&req.DiscountPercent, "discount", 0, "percentage discount to apply to all prices")
	cmd.Flags().BoolVar(&fuzzy, "fuzzy", false, "resolve the service name through fuzzy matching on empty results")
	return cmd
}

func newCompareCmd() *cobra.Command {
	var req engine.CompareRequest

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare prices across regions or SKUs",
		Long: `Compare prices for one service, ranked cheapest first.

With --regions the comparison is region by region (--sku narrows each
lookup); without it the service's SKUs are compared. The two modes cannot be
combined.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.ServiceName == "" {
				return fmt.Errorf("--service is required")
			}
			if req.CurrencyCode == "" {
				req.CurrencyCode = cfg.Currency
			}
			return withEngine(func(ctx context.Context, eng *engine.Engine) (any, error) {
				return eng.Compare(ctx, req)
			})
		},
	}

	cmd.Flags().StringVar(&req.ServiceName, "service", "", "service name to compare")
	cmd.Flags().StringVar(&req.SkuName, "sku", "", "SKU filter for region comparison")
	cmd.Flags().StringSliceVar(&req.Regions, "regions", nil, "regions to compare (omit to compare SKUs)")
	cmd.Flags().StringVar(&req.CurrencyCode, "currency", "", "currency code (default USD)")
	cmd.Flags().Float64Var(&req.DiscountPercent, "discount", 0, "percentage discount to apply")
	return cmd
}

func newEstimateCmd() *cobra.Command {
	var req engine.EstimateRequest

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate monthly cost for one SKU",
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.ServiceName == "" || req.SkuName == "" || req.Region == "" {
				return fmt.Errorf("--service, --sku and --region are required")
			}
			if req.CurrencyCode == "" {
				req.CurrencyCode = cfg.Currency
			}
			return withEngine(func(ctx context.Context, eng *engine.Engine) (any, error) {
				return eng.Estimate(ctx, req)
			})
		},
	}

	cmd.Flags().StringVar(&req.ServiceName, "service", "", "service name")
	cmd.Flags().StringVar(&req.SkuName, "sku", "", "SKU name")
	cmd.Flags().StringVar(&req.Region, "region", "", "ARM region name")
	cmd.Flags().Float64Var(&req.HoursPerMonth, "hours", 0, "hours of usage per month (default 730)")
	cmd.Flags().StringVar(&req.CurrencyCode, "currency", "", "currency code (default USD)")
	cmd.Flags().Float64Var(&req.DiscountPercent, "discount", 0, "percentage discount to apply")
	return cmd
}

func newSkusCmd() *cobra.Command {
	var req engine.DiscoverRequest

	cmd := &cobra.Command{
		Use:   "skus",
		Short: "List the distinct SKUs of a service",
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.ServiceName == "" {
				return fmt.Errorf("--service is required")
			}
			if req.CurrencyCode == "" {
				req.CurrencyCode = cfg.Currency
			}
			return withEngine(func(ctx context.Context, eng *engine.Engine) (any, error) {
				return eng.DiscoverSkus(ctx, req)
			})
		},
	}

	cmd.Flags().StringVar(&req.ServiceName, "service", "", "service name")
	cmd.Flags().StringVar(&req.Region, "region", "", "ARM region name")
	cmd.Flags().StringVar(&req.PriceType, "price-type", "", "price type (default Consumption)")
	cmd.Flags().StringVar(&req.CurrencyCode, "currency", "", "currency code (default USD)")
	cmd.Flags().IntVar(&req.Limit, "limit", 0, "maximum records to scan (default 100)")
	return cmd
}

func newDiscoverCmd() *cobra.Command {
	var req engine.ResolveRequest

	cmd := &cobra.Command{
		Use:   "discover <service-hint>",
		Short: "Discover SKUs from a free-text service hint",
		Long: `Discover SKUs with fuzzy service-name matching.

The hint does not need to be an exact catalog name: "vm", "app service" and
"k8s" all resolve. When nothing matches, similar services are suggested.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.ServiceHint = args[0]
			if req.CurrencyCode == "" {
				req.CurrencyCode = cfg.Currency
			}
			return withEngine(func(ctx context.Context, eng *engine.Engine) (any, error) {
				return eng.ResolveSkus(ctx, req)
			})
		},
	}

	cmd.Flags().StringVar(&req.Region, "region", "", "ARM region name")
	cmd.Flags().StringVar(&req.CurrencyCode, "currency", "", "currency code (default USD)")
	cmd.Flags().IntVar(&req.Limit, "limit", 0, "maximum records to scan (default 30)")
	return cmd
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")

	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newCompareCmd())
	rootCmd.AddCommand(newEstimateCmd())
	rootCmd.AddCommand(newSkusCmd())
	rootCmd.AddCommand(newDiscoverCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

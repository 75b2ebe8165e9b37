package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/elasticache"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/aws/aws-sdk-go-v2/service/pricing"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/opscart/cloud-waste-advisor/pkg/analyzer"
	"github.com/opscart/cloud-waste-advisor/pkg/catalog"
	"github.com/opscart/cloud-waste-advisor/pkg/config"
	"github.com/opscart/cloud-waste-advisor/pkg/engine"
	"github.com/opscart/cloud-waste-advisor/pkg/inventory"
	"github.com/opscart/cloud-waste-advisor/pkg/metrics"
	"github.com/opscart/cloud-waste-advisor/pkg/models"
	"github.com/opscart/cloud-waste-advisor/pkg/reporter"
	"github.com/opscart/cloud-waste-advisor/pkg/storage"
)

var (
	// Scan flags
	region          string
	inventoryFile   string
	metricsFile     string
	catalogFile     string
	usePricingAPI   bool
	metricsProvider string
	outputFormat    string
	saveResults     bool
	reportOutput    string
	concurrency     int
	windowFlag      time.Duration
	minSavings      float64
	tuningFile      string
	verbose         bool

	// History flags
	historyLimit int

	cfg *config.Config
	log *zap.Logger
)

func main() {
	cfg = config.NewConfig()

	rootCmd := &cobra.Command{
		Use:   "waste-scan",
		Short: "AWS cloud waste scanner",
		Long:  `Scan an AWS account for waste: oversized instances, idle resources, and storage that belongs in a cheaper tier.`,
		RunE:  runScan,
	}

	rootCmd.Flags().StringVar(&region, "region", cfg.Region, "AWS region to scan")
	rootCmd.Flags().StringVar(&inventoryFile, "inventory-file", "", "Read inventory from a JSON file instead of the AWS API")
	rootCmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Read metric series from a JSON file instead of a metrics provider")
	rootCmd.Flags().StringVar(&catalogFile, "catalog-file", cfg.CatalogFile, "Instance catalog YAML (defaults to the embedded catalog)")
	rootCmd.Flags().BoolVar(&usePricingAPI, "pricing-api", false, "Build the instance catalog from the AWS Pricing API")
	rootCmd.Flags().StringVar(&metricsProvider, "metrics-provider", cfg.MetricsProvider, "Metrics provider: cloudwatch, prometheus, static")
	rootCmd.Flags().StringVarP(&outputFormat, "output", "o", cfg.OutputFormat, "Output format: text, markdown, csv, json")
	rootCmd.Flags().BoolVar(&saveResults, "save", false, "Save the run to the database")
	rootCmd.Flags().StringVar(&reportOutput, "report-output", "", "Write the report to a file instead of stdout")
	rootCmd.Flags().IntVar(&concurrency, "concurrency", cfg.Concurrency, "Max resources analyzed in parallel")
	rootCmd.Flags().DurationVar(&windowFlag, "window", cfg.MetricsWindow, "Metric lookback window")
	rootCmd.Flags().Float64Var(&minSavings, "min-savings", cfg.MinMonthlySavings, "Drop recommendations saving less than this per month")
	rootCmd.Flags().StringVar(&tuningFile, "tuning-file", cfg.TuningFile, "Threshold tuning YAML")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", cfg.Verbose, "Enable debug logging")

	historyCmd := &cobra.Command{
		Use:   "history [scope]",
		Short: "List past analysis runs",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHistory,
	}
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Number of runs to show")

	showCmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Print a stored analysis run",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}
	showCmd.Flags().StringVarP(&outputFormat, "output", "o", "text", "Output format: text, markdown, csv, json")

	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(showCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initLogger() error {
	var err error
	if verbose {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	return err
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg.Region = region
	cfg.MetricsProvider = metricsProvider
	cfg.MetricsWindow = windowFlag
	cfg.Concurrency = concurrency
	cfg.MinMonthlySavings = minSavings
	cfg.OutputFormat = outputFormat
	if metricsFile != "" {
		cfg.MetricsProvider = config.ProviderStatic
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := initLogger(); err != nil {
		return err
	}
	defer log.Sync()

	format, err := reporter.ParseFormat(cfg.OutputFormat)
	if err != nil {
		return err
	}

	ctx := context.Background()
	now := time.Now().UTC()

	thresholds := analyzer.DefaultThresholds()
	costs := analyzer.DefaultCosts()
	if tuningFile != "" {
		thresholds, costs, err = analyzer.LoadTuning(tuningFile)
		if err != nil {
			return fmt.Errorf("failed to load tuning: %w", err)
		}
	}

	// Offline mode skips AWS entirely; both files must be supplied.
	offline := inventoryFile != "" && metricsFile != ""
	var awsCfg *awsConfigHolder
	if !offline {
		loaded, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
		if err != nil {
			return fmt.Errorf("failed to load AWS config: %w", err)
		}
		awsCfg = &awsConfigHolder{cfg: loaded}
	}

	cat, err := buildCatalog(ctx, awsCfg)
	if err != nil {
		return err
	}

	provider, err := buildProvider(awsCfg, now)
	if err != nil {
		return err
	}

	resources, err := buildInventory(ctx, awsCfg, thresholds)
	if err != nil {
		return err
	}
	log.Info("inventory collected", zap.Int("resources", len(resources)))

	eng, err := engine.NewDefault(cat, provider, log, engine.Options{
		Concurrency:       cfg.Concurrency,
		Window:            cfg.MetricsWindow,
		Period:            cfg.MetricsPeriod,
		Now:               now,
		MinMonthlySavings: cfg.MinMonthlySavings,
	}, thresholds, costs)
	if err != nil {
		return err
	}

	result, err := eng.Run(ctx, resources)
	if err != nil {
		return err
	}

	if saveResults {
		store, err := storage.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		defer store.Close()

		runID, err := store.SaveResult(ctx, cfg.Region, result)
		if err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		log.Info("run saved", zap.String("runId", runID))
	}

	return writeReport(result, cfg.Region, format)
}

// awsConfigHolder defers AWS client construction so offline runs never
// touch credentials.
type awsConfigHolder struct {
	cfg aws.Config
}

func buildCatalog(ctx context.Context, awsCfg *awsConfigHolder) (*catalog.Catalog, error) {
	switch {
	case usePricingAPI:
		if awsCfg == nil {
			return nil, fmt.Errorf("--pricing-api requires AWS access")
		}
		// The Pricing API only lives in a few regions; us-east-1 serves
		// price lists for all of them.
		pricingCfg := awsCfg.cfg.Copy()
		pricingCfg.Region = "us-east-1"
		return catalog.LoadFromPricingAPI(ctx, pricing.NewFromConfig(pricingCfg), cfg.Region)
	case catalogFile != "":
		return catalog.LoadFile(catalogFile)
	default:
		return catalog.Default(), nil
	}
}

func buildProvider(awsCfg *awsConfigHolder, now time.Time) (metrics.Provider, error) {
	if metricsFile != "" {
		return metrics.LoadStaticFile(metricsFile)
	}
	switch cfg.MetricsProvider {
	case config.ProviderCloudWatch:
		if awsCfg == nil {
			return nil, fmt.Errorf("cloudwatch provider requires AWS access")
		}
		return metrics.NewCloudWatchProvider(cloudwatch.NewFromConfig(awsCfg.cfg), now, log), nil
	case config.ProviderPrometheus:
		return metrics.NewPrometheusProvider(cfg.PrometheusURL, now, log)
	case config.ProviderStatic:
		return nil, fmt.Errorf("static provider requires --metrics-file")
	default:
		return nil, fmt.Errorf("unknown metrics provider %q", cfg.MetricsProvider)
	}
}

func buildInventory(ctx context.Context, awsCfg *awsConfigHolder, t analyzer.Thresholds) ([]models.ResourceDescriptor, error) {
	if inventoryFile != "" {
		return inventory.LoadFile(inventoryFile)
	}
	if awsCfg == nil {
		return nil, fmt.Errorf("live inventory requires AWS access")
	}
	return inventory.CollectAll(ctx, log,
		inventory.NewEC2Collector(ec2.NewFromConfig(awsCfg.cfg)),
		inventory.NewELBCollector(elbv2.NewFromConfig(awsCfg.cfg)),
		inventory.NewRDSCollector(rds.NewFromConfig(awsCfg.cfg)),
		inventory.NewCacheCollector(elasticache.NewFromConfig(awsCfg.cfg)),
		inventory.NewS3Collector(s3.NewFromConfig(awsCfg.cfg), t.ObjectSampleCap),
	)
}

func writeReport(result *models.AnalysisResult, scope string, format reporter.ReportFormat) error {
	rep := reporter.New(format)
	report := rep.Generate(result, scope)

	out := os.Stdout
	if reportOutput != "" {
		f, err := os.Create(reportOutput)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		out = f
	}

	return rep.Write(report, out)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if err := initLogger(); err != nil {
		return err
	}
	defer log.Sync()

	scope := ""
	if len(args) == 1 {
		scope = args[0]
	}

	store, err := storage.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	runs, err := store.ListRuns(context.Background(), scope, historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Printf("%-38s %-12s %-20s %10s %8s %12s\n",
		"RUN ID", "SCOPE", "GENERATED", "RESOURCES", "RECS", "SAVINGS/MO")
	for _, r := range runs {
		fmt.Printf("%-38s %-12s %-20s %10d %8d %11.2f$\n",
			r.ID, r.Scope, r.GeneratedAt.Format("2006-01-02 15:04:05"),
			r.ResourcesAnalyzed, r.Recommendations, r.TotalMonthlySavings)
	}
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	if err := initLogger(); err != nil {
		return err
	}
	defer log.Sync()

	store, err := storage.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	result, err := store.GetResult(context.Background(), args[0])
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	format, err := reporter.ParseFormat(outputFormat)
	if err != nil {
		return err
	}
	return writeReport(result, "", format)
}

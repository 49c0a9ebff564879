// Command houseprice trains a log-price linear model on the NY house dataset
// and reports its test-set error.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/YuminosukeSato/houseprice/config"
	"github.com/YuminosukeSato/houseprice/metrics"
	"github.com/YuminosukeSato/houseprice/pipeline"
	"github.com/YuminosukeSato/houseprice/pkg/errors"
	"github.com/YuminosukeSato/houseprice/pkg/log"
	"github.com/YuminosukeSato/houseprice/store"
)

type options struct {
	configPath  string
	dataPath    string
	lr          float64
	epochs      int
	trainRatio  float64
	strictPrice bool
	plotPath    string
	weightsPath string
	storePath   string
	logLevel    string
	history     int
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("houseprice", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.configPath, "config", "", "YAML or JSON configuration file")
	fs.StringVar(&opts.dataPath, "data", "", "input CSV dataset")
	fs.Float64Var(&opts.lr, "lr", 0, "gradient descent learning rate")
	fs.IntVar(&opts.epochs, "epochs", 0, "number of gradient descent epochs")
	fs.Float64Var(&opts.trainRatio, "train-ratio", 0, "fraction of rows used for training")
	fs.BoolVar(&opts.strictPrice, "strict-price", false, "drop rows whose price cannot be parsed")
	fs.StringVar(&opts.plotPath, "plot", "", "prediction plot PNG path (empty disables)")
	fs.StringVar(&opts.weightsPath, "weights", "", "model weights JSON path (empty disables)")
	fs.StringVar(&opts.storePath, "store", "", "SQLite run history path (empty disables)")
	fs.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")
	fs.IntVar(&opts.history, "history", 0, "print the N most recent runs and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Read(opts.configPath)
	if err != nil {
		return err
	}
	applyFlags(fs, &opts, cfg)
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	if err := log.SetupLogger(cfg.LogLevel, stderr); err != nil {
		return err
	}

	if opts.history > 0 {
		return printHistory(ctx, cfg.Store.Path, opts.history, stdout)
	}

	res, err := pipeline.New(cfg).Run(ctx)
	if err != nil {
		return err
	}
	printReport(stdout, res.Report)
	return nil
}

// applyFlags copies only the flags given on the command line over cfg.
func applyFlags(fs *flag.FlagSet, opts *options, cfg *config.Config) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "data":
			cfg.Data.Path = opts.dataPath
		case "lr":
			cfg.Training.LearningRate = opts.lr
		case "epochs":
			cfg.Training.Epochs = opts.epochs
		case "train-ratio":
			cfg.Normalizer.TrainRatio = opts.trainRatio
		case "strict-price":
			cfg.Normalizer.StrictPrice = opts.strictPrice
		case "plot":
			cfg.Output.PlotPath = opts.plotPath
		case "weights":
			cfg.Output.WeightsPath = opts.weightsPath
		case "store":
			cfg.Store.Path = opts.storePath
		case "log-level":
			cfg.LogLevel = opts.logLevel
		}
	})
}

func printReport(w io.Writer, r metrics.Report) {
	fmt.Fprintf(w, "Root Mean Squared Error (Linear Regression): %.4f\n", r.RMSE)
	fmt.Fprintf(w, "Mean Absolute Error (MAE): %.4f\n", r.MAE)
	fmt.Fprintf(w, "Mean Squared Error (MSE): %.4f\n", r.MSE)
	fmt.Fprintf(w, "R-squared (R²): %.4f\n", r.R2)
	fmt.Fprintf(w, "Mean Absolute Percentage Error (MAPE): %.2f%%\n", r.MAPE)
}

func printHistory(ctx context.Context, path string, limit int, w io.Writer) error {
	if path == "" {
		return errors.Newf("-history requires a run store (-store or %s)", config.EnvStorePath)
	}
	s, err := store.NewSQLiteStore(path)
	if err != nil {
		return err
	}
	defer s.Close()

	runs, err := s.ListRuns(ctx, limit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN ID\tCREATED\tLR\tEPOCHS\tRETAINED\tRMSE\tR2\tMAPE")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%g\t%d\t%d\t%.4f\t%.4f\t%.2f%%\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.LearningRate, r.Epochs,
			r.Retained, r.Metrics.RMSE, r.Metrics.R2, r.Metrics.MAPE)
	}
	return tw.Flush()
}

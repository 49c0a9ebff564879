// Package houseprice predicts New York house prices with a linear model on
// the log of the listing price.
//
// The work is split across packages that can be used on their own:
//
//   - dataset reads the raw CSV and extracts the five features (beds, bath,
//     property_sqft, latitude, longitude) and the price of each row.
//   - preprocessing filters rows, standardizes the features and splits the
//     data contiguously into training and test partitions.
//   - linear trains weights by batch gradient descent and predicts x·w.
//   - metrics computes RMSE, MAE, MSE, R² and a capped MAPE.
//   - visualization plots actual against predicted prices.
//   - store keeps a SQLite history of runs.
//   - pipeline wires the stages together and cmd/houseprice exposes them.
//
// # Quick Start
//
//	cfg, err := config.Load("houseprice.yaml")
//	if err != nil {
//	    return err
//	}
//	res, err := pipeline.New(cfg).Run(ctx)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("RMSE: %.4f\n", res.Report.RMSE)
//
// # Using the stages directly
//
//	rows, _ := dataset.LoadCSV("NY-House-Dataset.csv")
//	norm, _ := preprocessing.NewNormalizer().Normalize(rows)
//	w, _ := linear.Train(norm.Train.X, norm.Train.Y, 0.01, 1000)
//	rmse, _, _ := linear.Evaluate(norm.Test.X, norm.Test.Y, w)
//
// Errors returned by every package wrap the sentinels and typed errors of
// pkg/errors, so callers can test them with errors.Is and errors.As.
package houseprice

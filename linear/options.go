package linear

import "github.com/YuminosukeSato/houseprice/pkg/log"

// Option is a function that configures GradientDescentRegressor
type Option func(*GradientDescentRegressor)

// WithLearningRate sets the gradient descent step size
func WithLearningRate(lr float64) Option {
	return func(r *GradientDescentRegressor) {
		r.learningRate = lr
	}
}

// WithEpochs sets the number of full-batch iterations
func WithEpochs(epochs int) Option {
	return func(r *GradientDescentRegressor) {
		r.epochs = epochs
	}
}

// WithLogger sets the logger used for training records
func WithLogger(logger log.Logger) Option {
	return func(r *GradientDescentRegressor) {
		r.logger = logger
	}
}

package linear

import (
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// createBenchmarkData はベンチマーク用のデータを生成する
func createBenchmarkData(rows, cols int) (*mat.Dense, *mat.VecDense) {
	// シードを固定して再現性を確保
	rng := rand.New(rand.NewPCG(42, 42))

	X := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			X.Set(i, j, rng.Float64()*2.0-1.0)
		}
	}

	trueWeights := make([]float64, cols)
	for j := 0; j < cols; j++ {
		trueWeights[j] = float64(j+1) * 0.5
	}

	// 切片なし: y = X * weights + 小さなノイズ
	y := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		var sum float64
		for j := 0; j < cols; j++ {
			sum += X.At(i, j) * trueWeights[j]
		}
		sum += (rng.Float64() - 0.5) * 0.1
		y.SetVec(i, sum)
	}

	return X, y
}

// BenchmarkTrain はTrainのベンチマークを実行する
func BenchmarkTrain(b *testing.B) {
	sizes := []struct {
		name   string
		rows   int
		cols   int
		epochs int
	}{
		{"Small_100x5", 100, 5, 1000},
		{"Medium_1000x5", 1000, 5, 1000},
		{"Large_10000x5", 10000, 5, 1000},
		{"Large_10000x20", 10000, 20, 200},
	}

	for _, size := range sizes {
		b.Run(size.name, func(b *testing.B) {
			X, y := createBenchmarkData(size.rows, size.cols)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := Train(X, y, 0.01, size.epochs); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkPredict は並列閾値の前後で予測を比較する
func BenchmarkPredict(b *testing.B) {
	sizes := []struct {
		name string
		rows int
	}{
		{"Sequential_900x5", 900},   // 閾値(1000)未満
		{"Parallel_2000x5", 2000},
		{"Parallel_50000x5", 50000},
	}

	for _, size := range sizes {
		b.Run(size.name, func(b *testing.B) {
			X, _ := createBenchmarkData(size.rows, 5)
			w := mat.NewVecDense(5, []float64{0.5, 1.0, 1.5, 2.0, 2.5})

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := Predict(X, w); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

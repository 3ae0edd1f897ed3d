package dataset

import (
	"math"
	"math/rand/v2"

	"github.com/YuminosukeSato/salarygo/pkg/errors"
)

// Default split parameters of the training run.
const (
	DefaultTestSize = 0.2
	DefaultSeed     = 42
)

// TrainTestSplit shuffles the rows with a seeded PCG source and holds out
// ceil(n*testSize) of them. The same seed always yields the same split.
func TrainTestSplit(l *Labeled, testSize float64, seed uint64) (train, test *Labeled, err error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, errors.NewValidationError("test_size", "must be in (0, 1)", testSize)
	}
	n := l.Rows()
	nTest := int(math.Ceil(float64(n) * testSize))
	nTrain := n - nTest
	if nTest == 0 || nTrain == 0 {
		return nil, nil, errors.NewModelError("dataset.TrainTestSplit",
			"not enough rows to split", errors.ErrEmptyData)
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	perm := rng.Perm(n)

	return l.Take(perm[nTest:]), l.Take(perm[:nTest]), nil
}

package ports

import (
	"cardiostat/domain/dataset"
)

// DatasetSource yields the table an analysis runs on. Implementations read a
// file or synthesise rows; either way the returned dataset is immutable.
type DatasetSource interface {
	Load() (*dataset.Dataset, error)
}

package menu

import "time"

// Cache holds the weekly menu. Delete bumps the generation returned by
// Generation; Set drops the value when the generation it was read under
// is no longer current.
type Cache interface {
	Get() ([]Day, bool)
	Generation() uint64
	Set(days []Day, ttl time.Duration, generation uint64)
	Delete()
}

type noopCache struct{}

func (noopCache) Get() ([]Day, bool) {
	return nil, false
}

func (noopCache) Generation() uint64 { return 0 }

func (noopCache) Set([]Day, time.Duration, uint64) {}

func (noopCache) Delete() {}

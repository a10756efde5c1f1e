package adaptive

import (
	"errors"
	"math/rand"
)

// ErrEmptyPool is returned when drawing from a pool with no elements. It
// signals a configuration bug upstream: no active intervals were supplied.
var ErrEmptyPool = errors.New("weighted pool is empty")

// BuildPool expands the active ids into a weighted multiset: each id appears
// weight times, where weight comes from its recorded accuracy, or WeightNoData
// when the id is absent from the accuracy map. Pool length is the sum of
// weights; an empty id list yields an empty pool.
//
// Pool expansion is O(sum of weights) memory, which is fine at this scale
// (weights <= 5, active intervals <= 13). A cumulative-weight binary search
// would replace this if the catalog grew.
func BuildPool(activeIDs []string, accuracy map[string]float64) []string {
	pool := make([]string, 0, len(activeIDs)*WeightNoData)
	for _, id := range activeIDs {
		w := WeightNoData
		if acc, ok := accuracy[id]; ok {
			w = WeightFor(acc)
		}
		for i := 0; i < w; i++ {
			pool = append(pool, id)
		}
	}
	return pool
}

// PickFromPool draws one id uniformly from the pool, which makes the draw
// weighted over the distinct ids.
func PickFromPool(rng *rand.Rand, pool []string) (string, error) {
	if len(pool) == 0 {
		return "", ErrEmptyPool
	}
	return pool[rng.Intn(len(pool))], nil
}

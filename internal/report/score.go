package report

import (
	"math"
	"sort"
)

// WorstBucket is reserved for keywords with zero conversions.
const WorstBucket = 5

// BucketMap maps a keyword to its performance bucket (1 best, 5 worst).
type BucketMap map[string]int

// Score assigns every keyword a bucket. Keywords without conversions always
// land in bucket 5, whatever their cost. The rest are ranked by cost per
// acquisition ascending and split positionally into four groups of size n/4
// (unrounded): rank i gets bucket floor(i/(n/4))+1, capped at 4. Equal CPAs
// rank in the order the keywords appear in the canonical sequence, which
// keeps the split deterministic.
func Score(keywords []AggregatedKeyword) BucketMap {
	buckets := make(BucketMap, len(keywords))

	type ranked struct {
		keyword string
		cpa     float64
	}
	var withConversions []ranked

	for _, k := range keywords {
		if k.Conversions == 0 {
			buckets[k.Keyword] = WorstBucket
			continue
		}
		withConversions = append(withConversions, ranked{
			keyword: k.Keyword,
			cpa:     k.Cost / k.Conversions,
		})
	}

	sort.SliceStable(withConversions, func(i, j int) bool {
		return withConversions[i].cpa < withConversions[j].cpa
	})

	quartileSize := float64(len(withConversions)) / 4
	for i, r := range withConversions {
		bucket := int(math.Floor(float64(i)/quartileSize)) + 1
		if bucket > 4 {
			bucket = 4
		}
		buckets[r.keyword] = bucket
	}

	return buckets
}

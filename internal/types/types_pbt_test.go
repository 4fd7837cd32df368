package types

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestSnapshotValidityProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("a snapshot with a price is always valid", prop.ForAll(
		func(price float64) bool {
			s := &AssetSnapshot{LastPrice: Float64Ptr(price)}
			return s.Valid()
		},
		gen.Float64(),
	))

	properties.Property("a snapshot is valid iff it has a price or a chart", prop.ForAll(
		func(hasPrice bool, chartLen int) bool {
			s := &AssetSnapshot{}
			if hasPrice {
				s.LastPrice = Float64Ptr(1)
			}
			if chartLen > 0 {
				s.Chart = make([]float64, chartLen)
			}
			return s.Valid() == (hasPrice || chartLen > 0)
		},
		gen.Bool(),
		gen.IntRange(0, 90),
	))

	properties.TestingRun(t)
}

package types

import (
	"testing"
)

func TestSnapshotValid(t *testing.T) {
	tests := []struct {
		name     string
		snapshot *AssetSnapshot
		want     bool
	}{
		{"nil snapshot", nil, false},
		{"empty snapshot", &AssetSnapshot{}, false},
		{"price only", &AssetSnapshot{LastPrice: Float64Ptr(150)}, true},
		{"chart only", &AssetSnapshot{Chart: []float64{1, 2, 3}}, true},
		{"price and chart", &AssetSnapshot{LastPrice: Float64Ptr(150), Chart: []float64{1}}, true},
		{"zero price still counts", &AssetSnapshot{LastPrice: Float64Ptr(0)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.snapshot.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestServiceError(t *testing.T) {
	err := &ServiceError{Code: ErrCodeNoData, Message: "no data available for ZZZZ"}
	if err.Error() != "no data available for ZZZZ" {
		t.Errorf("Error() = %s", err.Error())
	}
}

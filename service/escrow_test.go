package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputePrizePool(t *testing.T) {
	tests := []struct {
		name     string
		entryFee int64
		capacity int
		feeRate  float64
		expected int64
	}{
		{name: "head to head standard fee", entryFee: 100, capacity: 2, feeRate: 0.10, expected: 180},
		{name: "small stake", entryFee: 50, capacity: 2, feeRate: 0.10, expected: 90},
		{name: "four player lobby", entryFee: 100, capacity: 4, feeRate: 0.10, expected: 360},
		{name: "no platform fee", entryFee: 100, capacity: 2, feeRate: 0, expected: 200},
		{name: "odd pot rounds to nearest", entryFee: 25, capacity: 2, feeRate: 0.10, expected: 45},
		{name: "high fee rate", entryFee: 100, capacity: 2, feeRate: 0.25, expected: 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ComputePrizePool(tt.entryFee, tt.capacity, tt.feeRate))
		})
	}
}

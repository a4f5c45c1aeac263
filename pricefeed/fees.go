package pricefeed

import "math/big"

// FeeCalculator computes the required payment for update batches
type FeeCalculator struct {
	unitFee *big.Int
}

// NewFeeCalculator creates a calculator charging unitFeeWei per update
func NewFeeCalculator(unitFeeWei *big.Int) FeeCalculator {
	return FeeCalculator{
		unitFee: new(big.Int).Set(unitFeeWei),
	}
}

// ComputeFee returns the fee in wei for a batch of batchSize updates
func (f FeeCalculator) ComputeFee(batchSize int) *big.Int {
	return new(big.Int).Mul(f.unitFee, big.NewInt(int64(batchSize)))
}

package tx

// EstimateFee returns the minimum fee for a bundle with the given number of
// spends at the given fee rate (base units per byte).
//
// The estimate is based on the canonical bundle layout:
//
//	spendCount(4) + spends(coin 72 + lens 8 + reveal + solution) + fee(8)
//
// perSpendProgramBytes approximates reveal plus solution size; 512 covers
// typical singleton spends.
func EstimateFee(numSpends int, feeRate uint64) uint64 {
	const overhead = 4 + 8
	const perSpend = 72 + 8
	const perSpendProgramBytes = 512

	size := overhead + (perSpend+perSpendProgramBytes)*numSpends
	return uint64(size) * feeRate
}

// RequiredFee returns the exact minimum fee for a fully built bundle at the
// given fee rate (base units per byte of canonical serialization). More
// accurate than EstimateFee for bundles with large reveals.
func RequiredFee(bundle *SpendBundle, feeRate uint64) uint64 {
	return uint64(len(bundle.Bytes())) * feeRate
}

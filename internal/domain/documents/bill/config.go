package bill

import "medistock/pkg/numerator"

const (
	// NumeratorPrefix for bill numbers (BILL-2026-00001).
	NumeratorPrefix = "BILL"

	// NumeratorStrategy: bills are accounting documents, numbers must
	// be sequential without gaps.
	NumeratorStrategy = numerator.StrategyStrict
)

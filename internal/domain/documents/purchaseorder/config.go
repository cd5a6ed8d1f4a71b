package purchaseorder

import "medistock/pkg/numerator"

const (
	// NumeratorPrefix for order numbers (PO-2026-00001).
	NumeratorPrefix = "PO"

	// NumeratorStrategy: purchase orders are internal documents, gaps
	// after a restart are acceptable.
	NumeratorStrategy = numerator.StrategyCached
)

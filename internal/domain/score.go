package domain

// Factor is one interpretable component of a health score. Value is the raw
// factor normalized to [-1,1]; Contribution is Value scaled by Weight.
type Factor struct {
	Name         string  `json:"name"`
	Value        float64 `json:"value"`
	Weight       int     `json:"weight"`
	Contribution float64 `json:"contribution"`
}

// HealthScore is a 0-100 composite computed from a snapshot of transactions
// and budgets for one evaluation window. Factors are reported in a fixed
// order (descending weight) so the result is deterministic for display.
type HealthScore struct {
	Value   int      `json:"value"`
	Factors []Factor `json:"factors"`
}

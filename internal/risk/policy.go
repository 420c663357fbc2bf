// Package risk maps checklist and risk-level signals to failure tallies.
// Everything here is pure.
package risk

import "go-sitesafety-ws/internal/model"

// Checklist keys, in the order failures are reported
const (
	ItemPPE         = "ppe"
	ItemFireSafety  = "fireSafety"
	ItemElectrical  = "electrical"
	ItemEnvironment = "environment"
)

// FailureTally counts non-compliant checklist items
type FailureTally struct {
	PPE         int `json:"ppe"`
	FireSafety  int `json:"fireSafety"`
	Electrical  int `json:"electrical"`
	Environment int `json:"environment"`
}

// Add returns the item-wise sum of t and o
func (t FailureTally) Add(o FailureTally) FailureTally {
	return FailureTally{
		PPE:         t.PPE + o.PPE,
		FireSafety:  t.FireSafety + o.FireSafety,
		Electrical:  t.Electrical + o.Electrical,
		Environment: t.Environment + o.Environment,
	}
}

// Total is the number of failed items across all keys
func (t FailureTally) Total() int {
	return t.PPE + t.FireSafety + t.Electrical + t.Environment
}

// Compliant is the single place deciding what a reported value means.
// A missing item counts as non-compliant.
func Compliant(v *bool) bool {
	return v != nil && *v
}

func failed(v *bool) int {
	if Compliant(v) {
		return 0
	}
	return 1
}

// ClassifyChecklist tallies the non-compliant items of one checklist
func ClassifyChecklist(c model.Checklist) FailureTally {
	return FailureTally{
		PPE:         failed(c.PPE),
		FireSafety:  failed(c.FireSafety),
		Electrical:  failed(c.Electrical),
		Environment: failed(c.Environment),
	}
}

// FailedItems lists the keys of the non-compliant items
func FailedItems(c model.Checklist) []string {
	items := make([]string, 0, 4)
	if !Compliant(c.PPE) {
		items = append(items, ItemPPE)
	}
	if !Compliant(c.FireSafety) {
		items = append(items, ItemFireSafety)
	}
	if !Compliant(c.Electrical) {
		items = append(items, ItemElectrical)
	}
	if !Compliant(c.Environment) {
		items = append(items, ItemEnvironment)
	}
	return items
}

// IsHighRisk reports whether the log was rated WARNING
func IsHighRisk(log model.InspectionLog) bool {
	return log.RiskLevel.Severity() >= model.RiskWarning.Severity()
}

// DailyFailureAggregate sums the checklist failures of logs.
// The result does not depend on the order of logs.
func DailyFailureAggregate(logs []model.InspectionLog) FailureTally {
	var total FailureTally
	for _, l := range logs {
		total = total.Add(ClassifyChecklist(l.Checklist))
	}
	return total
}

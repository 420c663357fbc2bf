package model

import "strings"

// RiskLevel is an ordered severity, WARNING being the most severe
type RiskLevel string

const (
	RiskNormal  RiskLevel = "NORMAL"
	RiskCaution RiskLevel = "CAUTION"
	RiskWarning RiskLevel = "WARNING"
)

var riskSeverity = map[RiskLevel]int{
	RiskNormal:  0,
	RiskCaution: 1,
	RiskWarning: 2,
}

// Severity returns the rank of the level, -1 for unknown values
func (r RiskLevel) Severity() int {
	if s, ok := riskSeverity[r]; ok {
		return s
	}
	return -1
}

func (r RiskLevel) Valid() bool {
	_, ok := riskSeverity[r]
	return ok
}

// ParseRiskLevel is case-insensitive and rejects unknown values
func ParseRiskLevel(s string) (RiskLevel, bool) {
	r := RiskLevel(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.Valid()
}

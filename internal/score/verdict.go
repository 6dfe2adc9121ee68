package score

import "fmt"

// Verdict labels, ordered from worst to best.
const (
	LabelScam       = "SCAM"
	LabelSuspicious = "SUSPICIOUS"
	LabelLowRisk    = "LOW RISK"
	LabelLegitimate = "LIKELY LEGITIMATE"
)

// Score thresholds for the label mapping. A score at or above a threshold
// takes that label.
const (
	ScamThreshold       = 70
	SuspiciousThreshold = 40
	LowRiskThreshold    = 20
)

// Verdict is the final output of the risk aggregator: a clamped score, a
// label consistent with it, a one-line summary, and the ordered list of
// human-readable risk factors behind the score.
type Verdict struct {
	Score       int      `json:"score"`
	Label       string   `json:"label"`
	Color       string   `json:"color"`
	Summary     string   `json:"summary"`
	RiskFactors []string `json:"riskFactors"`
}

// labelFor maps a clamped score to its label and color tier. The mapping
// is the single source of truth; no caller assigns labels directly.
func labelFor(score int) (label, color string) {
	switch {
	case score >= ScamThreshold:
		return LabelScam, "red"
	case score >= SuspiciousThreshold:
		return LabelSuspicious, "orange"
	case score >= LowRiskThreshold:
		return LabelLowRisk, "yellow"
	default:
		return LabelLegitimate, "green"
	}
}

// summaryFor renders the per-label summary sentence, naming the
// impersonated brand when one was detected.
func summaryFor(label, impersonatedBrand string) string {
	switch label {
	case LabelScam:
		if impersonatedBrand != "" {
			return fmt.Sprintf("This link is almost certainly a scam impersonating %s. Do not enter any personal information.", impersonatedBrand)
		}
		return "This link is almost certainly a scam. Do not enter any personal information."
	case LabelSuspicious:
		if impersonatedBrand != "" {
			return fmt.Sprintf("This link shows multiple warning signs and may be impersonating %s. Proceed with extreme caution.", impersonatedBrand)
		}
		return "This link shows multiple warning signs. Proceed with extreme caution."
	case LabelLowRisk:
		return "Minor irregularities were found. Double-check the address before entering sensitive data."
	default:
		return "No significant risk signals were found for this link."
	}
}

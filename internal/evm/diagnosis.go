package evm

// Qualitative health verdicts derived from the (SPI, CPI) pair.
const (
	DiagnosisOnStrategy        = "on strategy"
	DiagnosisCriticalDeviation = "critical deviation"
	DiagnosisFinancialRisk     = "financial risk / margin erosion"
	DiagnosisOperationalDelay  = "operational delay"
	DiagnosisBaseline          = "collecting baseline data"
)

// Severity classes consumed directly by the dashboard templates.
const (
	ClassDanger  = "text-danger"
	ClassWarning = "text-warning"
	ClassSuccess = "text-success"
)

// Diagnose maps the index pair onto an executive verdict. A project with no
// progress yet carries defaulted 1.00 indices, so progress is checked first
// to avoid reporting an untouched project as on strategy.
func Diagnose(spi, cpi, progress float64) string {
	if progress == 0 {
		return DiagnosisBaseline
	}
	switch {
	case cpi >= 1 && spi >= 1:
		return DiagnosisOnStrategy
	case cpi < 0.9 && spi < 0.9:
		return DiagnosisCriticalDeviation
	case cpi < 1:
		return DiagnosisFinancialRisk
	case spi < 1:
		return DiagnosisOperationalDelay
	default:
		return DiagnosisBaseline
	}
}

// IndexClass grades a performance index for display: below 0.9 is alarming,
// above 1.05 is comfortably ahead, anything between warrants watching.
func IndexClass(index float64) string {
	switch {
	case index < 0.9:
		return ClassDanger
	case index > 1.05:
		return ClassSuccess
	default:
		return ClassWarning
	}
}

// VarianceClass grades a monetary variance: negative means over budget or
// behind plan.
func VarianceClass(variance float64) string {
	if variance < 0 {
		return ClassDanger
	}
	return ClassSuccess
}

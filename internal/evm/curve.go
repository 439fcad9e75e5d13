package evm

import (
	"math"
	"time"
)

// DatedAmount is one expense entry as the curve generator sees it.
type DatedAmount struct {
	At     time.Time
	Amount float64
}

// CurveInputs drives one series generation. RecurringCost is the accrued
// labor cost to date, prorated linearly across the elapsed days. WindowStart
// and WindowEnd restrict which portion of the series is sampled without
// altering the underlying formula.
type CurveInputs struct {
	StartAt       time.Time
	AdjustedEnd   time.Time
	BAC           float64
	Progress      float64 // completion fraction in [0,1]
	Expenses      []DatedAmount
	RecurringCost float64
	Now           time.Time
	WindowStart   *time.Time
	WindowEnd     *time.Time
	MaxSamples    int
}

// Curve is the chart payload: one label per sample, a planned-value series
// across the whole window and nullable historical series that stop at today.
// Earned value and actual cost cannot be known ahead of time, so samples
// after today carry nil.
type Curve struct {
	Labels []string   `json:"labels"`
	PV     []float64  `json:"pv"`
	EV     []*float64 `json:"ev"`
	AC     []*float64 `json:"ac"`
	SPI    []*float64 `json:"spi"`
	CPI    []*float64 `json:"cpi"`
}

// GenerateCurve discretizes the project's adjusted duration into at most
// MaxSamples points. The planned-value shape is a cosine ease-in/ease-out:
// PV(x) = BAC * (1 - cos(x*pi)) / 2, flat at both ends and steepest through
// the middle, matching typical ramp-up/ramp-down resourcing.
func GenerateCurve(in CurveInputs) Curve {
	curve := Curve{
		Labels: []string{},
		PV:     []float64{},
		EV:     []*float64{},
		AC:     []*float64{},
		SPI:    []*float64{},
		CPI:    []*float64{},
	}

	totalDays := int(math.Ceil(in.AdjustedEnd.Sub(in.StartAt).Hours() / 24))
	if totalDays < 1 {
		totalDays = 1
	}
	daysPassed := int(math.Ceil(in.Now.Sub(in.StartAt).Hours() / 24))
	if daysPassed > totalDays {
		daysPassed = totalDays
	}

	loopStart, loopEnd := 0, totalDays
	if in.WindowStart != nil {
		offset := int(math.Ceil(in.WindowStart.Sub(in.StartAt).Hours() / 24))
		if offset > loopStart {
			loopStart = offset
		}
	}
	if in.WindowEnd != nil {
		offset := int(math.Ceil(in.WindowEnd.Sub(in.StartAt).Hours() / 24))
		if offset < loopEnd {
			loopEnd = offset
		}
	}
	if loopEnd < loopStart {
		return curve
	}

	maxSamples := in.MaxSamples
	if maxSamples <= 0 {
		maxSamples = 50
	}
	step := int(math.Ceil(float64(loopEnd-loopStart) / float64(maxSamples)))
	if step < 1 {
		step = 1
	}

	elapsedDenom := float64(daysPassed)
	if elapsedDenom < 1 {
		elapsedDenom = 1
	}

	for i := loopStart; i <= loopEnd; i += step {
		sampleDate := in.StartAt.AddDate(0, 0, i)
		curve.Labels = append(curve.Labels, sampleDate.Format("2 Jan"))

		x := float64(i) / float64(totalDays)
		pv := in.BAC * (1 - math.Cos(x*math.Pi)) / 2
		curve.PV = append(curve.PV, pv)

		if i > daysPassed {
			curve.EV = append(curve.EV, nil)
			curve.AC = append(curve.AC, nil)
			curve.SPI = append(curve.SPI, nil)
			curve.CPI = append(curve.CPI, nil)
			continue
		}

		share := float64(i) / elapsedDenom
		ev := in.BAC * in.Progress * share

		ac := in.RecurringCost * share
		for _, expense := range in.Expenses {
			if !expense.At.After(sampleDate) {
				ac += expense.Amount
			}
		}

		spi := 1.0
		if pv > 0 {
			spi = sanitizeIndex(ev / pv)
		}
		cpi := 1.0
		if ac > 0 {
			cpi = sanitizeIndex(ev / ac)
		}

		curve.EV = append(curve.EV, ptr(ev))
		curve.AC = append(curve.AC, ptr(ac))
		curve.SPI = append(curve.SPI, ptr(spi))
		curve.CPI = append(curve.CPI, ptr(cpi))
	}

	return curve
}

func ptr(v float64) *float64 { return &v }

package domain

// TrendPayload describes a direction fitted over a chronological series.
type TrendPayload struct {
	Direction     string    `json:"direction"`
	Periods       int       `json:"periods"`
	Series        []float64 `json:"series,omitempty"`
	MovingAverage []float64 `json:"moving_average,omitempty"`
}

func (p TrendPayload) Numbers() []float64 {
	out := append([]float64{}, p.Series...)
	return append(out, p.MovingAverage...)
}

type SpikePoint struct {
	Label  string  `json:"label"`
	Value  float64 `json:"value"`
	ZScore float64 `json:"z_score"`
}

type SpikePayload struct {
	Threshold float64      `json:"threshold"`
	Points    []SpikePoint `json:"points"`
}

func (p SpikePayload) Numbers() []float64 {
	out := []float64{p.Threshold}
	for _, pt := range p.Points {
		out = append(out, pt.Value, pt.ZScore)
	}
	return out
}

type ForecastPayload struct {
	Alpha  float64   `json:"alpha"`
	Values []float64 `json:"values"`
}

func (p ForecastPayload) Numbers() []float64 {
	return append([]float64{p.Alpha}, p.Values...)
}

type ConcentrationPayload struct {
	Vendor       string  `json:"vendor"`
	VendorTotal  float64 `json:"vendor_total"`
	SharePercent float64 `json:"share_percent"`
}

func (p ConcentrationPayload) Numbers() []float64 {
	return []float64{p.VendorTotal, p.SharePercent}
}

type VendorFigure struct {
	Vendor string  `json:"vendor"`
	Count  int     `json:"count"`
	Total  float64 `json:"total"`
	Ratio  float64 `json:"ratio,omitempty"`
	ZScore float64 `json:"z_score,omitempty"`
}

type VendorsPayload struct {
	Vendors []VendorFigure `json:"vendors"`
}

func (p VendorsPayload) Numbers() []float64 {
	out := make([]float64, 0, len(p.Vendors)*3)
	for _, v := range p.Vendors {
		out = append(out, v.Total, v.Ratio, v.ZScore)
	}
	return out
}

type TaxRateFigure struct {
	RecordID      string  `json:"record_id"`
	InvoiceNumber string  `json:"invoice_number"`
	Rate          float64 `json:"rate"`
}

type TaxRatesPayload struct {
	MeanRate   float64         `json:"mean_rate"`
	StdDevRate float64         `json:"stddev_rate"`
	Documents  []TaxRateFigure `json:"documents"`
}

func (p TaxRatesPayload) Numbers() []float64 {
	out := []float64{p.MeanRate, p.StdDevRate}
	for _, d := range p.Documents {
		out = append(out, d.Rate)
	}
	return out
}

type ChangePayload struct {
	CurrentPeriod  string  `json:"current_period"`
	PreviousPeriod string  `json:"previous_period"`
	Current        float64 `json:"current"`
	Previous       float64 `json:"previous"`
	ChangePercent  float64 `json:"change_percent"`
}

func (p ChangePayload) Numbers() []float64 {
	return []float64{p.Current, p.Previous, p.ChangePercent}
}

type RatesPayload struct {
	Total         int     `json:"total"`
	ApprovalRate  float64 `json:"approval_rate"`
	RejectionRate float64 `json:"rejection_rate"`
	PendingRate   float64 `json:"pending_rate"`
}

func (p RatesPayload) Numbers() []float64 {
	return []float64{p.ApprovalRate, p.RejectionRate, p.PendingRate}
}

type BottleneckPayload struct {
	Step        string         `json:"step"`
	StuckAtStep int            `json:"stuck_at_step"`
	TotalStuck  int            `json:"total_stuck"`
	ByStep      map[string]int `json:"by_step"`
}

func (p BottleneckPayload) Numbers() []float64 { return nil }

type DurationPayload struct {
	AverageDays float64 `json:"average_days"`
	Documents   int     `json:"documents"`
}

func (p DurationPayload) Numbers() []float64 {
	return []float64{p.AverageDays}
}

type PeakPayload struct {
	Labels []string  `json:"labels"`
	Counts []int     `json:"counts"`
	Totals []float64 `json:"totals"`
}

func (p PeakPayload) Numbers() []float64 {
	return append([]float64{}, p.Totals...)
}

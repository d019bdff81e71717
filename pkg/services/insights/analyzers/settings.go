package analyzers

import (
	"fmt"

	"github.com/de-tools/doc-insights/pkg/services/insights/stats"
	"github.com/spf13/viper"
)

// Settings contains the thresholds every analyzer reads.
type Settings struct {
	// WindowSize is the moving-average window for monthly spend (default: 3)
	WindowSize int `mapstructure:"window_size"`
	// AnomalyThreshold is the z-score cutoff for report specific anomalies (default: 2)
	AnomalyThreshold float64 `mapstructure:"anomaly_threshold"`
	// SmoothingAlpha weights the newest observation in forecasts (default: 0.3)
	SmoothingAlpha float64 `mapstructure:"smoothing_alpha"`
	// ForecastPeriods is the number of months forecast by the spend analyzer (default: 3)
	ForecastPeriods int `mapstructure:"forecast_periods"`
	// HighConfidenceMonths is the series length that makes a spend trend highly confident (default: 6)
	HighConfidenceMonths int `mapstructure:"high_confidence_months"`
	// HighSeveritySpikes is the spike count above which a spike entry is high severity (default: 2)
	HighSeveritySpikes int `mapstructure:"high_severity_spikes"`
	// ConcentrationPercent is the top vendor share that raises a concentration risk (default: 50)
	ConcentrationPercent float64 `mapstructure:"concentration_percent"`
	// GrowthMinApproved is the approved document count a growing vendor must exceed (default: 5)
	GrowthMinApproved int `mapstructure:"growth_min_approved"`
	// GrowthApprovalRatio is the approval ratio a growing vendor must exceed (default: 0.8)
	GrowthApprovalRatio float64 `mapstructure:"growth_approval_ratio"`
	// RejectionRiskRatio is the rejection ratio above which a vendor is a risk (default: 0.3)
	RejectionRiskRatio float64 `mapstructure:"rejection_risk_ratio"`
	// BottleneckHighSeverity is the stuck document count above which a bottleneck is high severity (default: 10)
	BottleneckHighSeverity int `mapstructure:"bottleneck_high_severity"`
	// PatternMinRecords is the record count the cross-cutting analyzer needs to exceed (default: 10)
	PatternMinRecords int `mapstructure:"pattern_min_records"`
	// AmountAnomalyThreshold is the z-score cutoff for per-document amounts (default: 2.5)
	AmountAnomalyThreshold float64 `mapstructure:"amount_anomaly_threshold"`
}

func DefaultSettings() Settings {
	return Settings{
		WindowSize:             stats.DefaultWindowSize,
		AnomalyThreshold:       stats.DefaultThreshold,
		SmoothingAlpha:         stats.DefaultAlpha,
		ForecastPeriods:        3,
		HighConfidenceMonths:   6,
		HighSeveritySpikes:     2,
		ConcentrationPercent:   50,
		GrowthMinApproved:      5,
		GrowthApprovalRatio:    0.8,
		RejectionRiskRatio:     0.3,
		BottleneckHighSeverity: 10,
		PatternMinRecords:      10,
		AmountAnomalyThreshold: 2.5,
	}
}

// LoadSettings reads thresholds from a yaml/json/toml file. Keys missing from
// the file keep their default value.
func LoadSettings(path string) (Settings, error) {
	defaults := DefaultSettings()

	v := viper.New()
	v.SetDefault("window_size", defaults.WindowSize)
	v.SetDefault("anomaly_threshold", defaults.AnomalyThreshold)
	v.SetDefault("smoothing_alpha", defaults.SmoothingAlpha)
	v.SetDefault("forecast_periods", defaults.ForecastPeriods)
	v.SetDefault("high_confidence_months", defaults.HighConfidenceMonths)
	v.SetDefault("high_severity_spikes", defaults.HighSeveritySpikes)
	v.SetDefault("concentration_percent", defaults.ConcentrationPercent)
	v.SetDefault("growth_min_approved", defaults.GrowthMinApproved)
	v.SetDefault("growth_approval_ratio", defaults.GrowthApprovalRatio)
	v.SetDefault("rejection_risk_ratio", defaults.RejectionRiskRatio)
	v.SetDefault("bottleneck_high_severity", defaults.BottleneckHighSeverity)
	v.SetDefault("pattern_min_records", defaults.PatternMinRecords)
	v.SetDefault("amount_anomaly_threshold", defaults.AmountAnomalyThreshold)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Settings{}, fmt.Errorf("failed to read settings file: %w", err)
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("failed to parse insight settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (s Settings) Validate() error {
	if s.WindowSize < 1 {
		return fmt.Errorf("window_size must be positive, got %d", s.WindowSize)
	}
	if s.SmoothingAlpha <= 0 || s.SmoothingAlpha > 1 {
		return fmt.Errorf("smoothing_alpha must be in (0, 1], got %v", s.SmoothingAlpha)
	}
	if s.ForecastPeriods < 1 {
		return fmt.Errorf("forecast_periods must be positive, got %d", s.ForecastPeriods)
	}
	if s.AnomalyThreshold <= 0 || s.AmountAnomalyThreshold <= 0 {
		return fmt.Errorf("anomaly thresholds must be positive")
	}
	return nil
}

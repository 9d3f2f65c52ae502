package models

import "fmt"

// SimulationType selects the return-simulation method.
type SimulationType string

const (
	SimulationMonteCarlo SimulationType = "monte_carlo"
	SimulationBootstrap  SimulationType = "bootstrap"
)

// ParseSimulationType validates a simulation type label.
func ParseSimulationType(s string) (SimulationType, error) {
	switch t := SimulationType(s); t {
	case SimulationMonteCarlo, SimulationBootstrap:
		return t, nil
	}
	return "", fmt.Errorf("unknown simulation type %q", s)
}

// SimulationResult is the outcome of one simulation trial, in the exact
// shape the results store persists.
type SimulationResult struct {
	StartValue    float64              `json:"start_value"`
	EndValue      float64              `json:"end_value"`
	OverallReturn float64              `json:"overall_ret"`
	AnnualReturn  float64              `json:"ann_ret"`
	YoYReturns    map[string]NullFloat `json:"yoy_returns"` // empty, never nil, for forecasts
}

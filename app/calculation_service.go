package app

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"aryastastic/domain/core"
	"aryastastic/domain/study"
	"aryastastic/internal"
	"aryastastic/internal/config"
	"aryastastic/internal/errors"
	"aryastastic/ports"
)

// CalculationService runs calculations and parameter sweeps against the
// calculator registry
type CalculationService struct {
	calculators ports.CalculatorPort
	sweep       config.SweepConfig
	logger      *internal.Logger
}

// Calculation is a tagged calculator result
type Calculation struct {
	ID          core.CalculationID              `json:"id"`
	Design      study.Design                    `json:"design"`
	Input       study.Input                     `json:"input"`
	Result      *study.ExtendedCalculatorResult `json:"result"`
	Fingerprint core.TraceHash                  `json:"fingerprint"`
	CreatedAt   core.Timestamp                  `json:"createdAt"`
}

// SweepRequest varies Parameter over Values with Base held fixed
type SweepRequest struct {
	Design    study.Design `json:"design"`
	Base      study.Input  `json:"base"`
	Parameter string       `json:"parameter"`
	Values    []float64    `json:"values"`
}

// NewCalculationService creates a calculation service. A nil logger logs nowhere.
func NewCalculationService(calculators ports.CalculatorPort, sweep config.SweepConfig, logger *internal.Logger) *CalculationService {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	if sweep.Concurrency < 1 {
		sweep.Concurrency = 1
	}
	return &CalculationService{calculators: calculators, sweep: sweep, logger: logger}
}

// Designs lists the designs the service can calculate
func (s *CalculationService) Designs() []ports.DesignInfo {
	return s.calculators.Designs()
}

// Calculate runs one calculation
func (s *CalculationService) Calculate(ctx context.Context, design study.Design, in study.Input) (*Calculation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	res, err := s.calculators.Compute(design, in)
	if err != nil {
		s.logger.Debug("calculation %s rejected: %v", design, err)
		return nil, err
	}

	calc := &Calculation{
		ID:          core.NewCalculationID(),
		Design:      design,
		Input:       in,
		Result:      res,
		Fingerprint: core.ComputeTraceHash(design.String(), res.Calculations),
		CreatedAt:   core.Now(),
	}
	s.logger.Info("calculation %s design=%s steps=%d elapsed=%s",
		calc.ID, design, len(res.Calculations), time.Since(start))
	return calc, nil
}

// Sweep evaluates the design once per value. Invalid points are reported per
// point; an unknown design or parameter fails the whole sweep.
func (s *CalculationService) Sweep(ctx context.Context, req SweepRequest) (*study.Sweep, error) {
	if err := s.checkSweep(req); err != nil {
		return nil, err
	}

	points := make([]study.SweepPoint, len(req.Values))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.sweep.Concurrency)
	for i, v := range req.Values {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			points[i] = s.evaluatePoint(req, v)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "sweep cancelled")
	}

	sweep := &study.Sweep{
		ID:        core.NewSweepID(),
		Design:    req.Design,
		Parameter: req.Parameter,
		Base:      req.Base,
		Points:    points,
		CreatedAt: core.Now(),
	}
	summary, err := summarize(points)
	if err != nil {
		return nil, err
	}
	sweep.Summary = summary
	s.logger.Info("sweep %s design=%s parameter=%s points=%d failed=%d",
		sweep.ID, req.Design, req.Parameter, len(points), sweep.Failed())
	return sweep, nil
}

// Batch calculates every scenario. Failures are reported per scenario and
// outcomes keep the scenario order.
func (s *CalculationService) Batch(ctx context.Context, scenarios []study.Scenario) ([]study.ScenarioOutcome, error) {
	outcomes := make([]study.ScenarioOutcome, len(scenarios))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.sweep.Concurrency)
	for i, sc := range scenarios {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out := study.ScenarioOutcome{Scenario: sc}
			res, err := s.calculators.Compute(sc.Design, sc.Input)
			if err != nil {
				out.Code = errors.GetCode(err)
				out.Error = err.Error()
			}
			out.Result = res
			outcomes[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "batch cancelled")
	}
	s.logger.Info("batch of %d scenarios calculated", len(scenarios))
	return outcomes, nil
}

func (s *CalculationService) checkSweep(req SweepRequest) error {
	if !s.hasDesign(req.Design) {
		return errors.NotFound("study design " + req.Design.String())
	}
	if !study.IsParam(req.Parameter) {
		return errors.InvalidParameterf("parameter", "unknown parameter %q", req.Parameter)
	}
	if len(req.Values) == 0 {
		return errors.InvalidParameter("values", "at least one value is required")
	}
	if s.sweep.MaxPoints > 0 && len(req.Values) > s.sweep.MaxPoints {
		return errors.InvalidParameterf("values", "at most %d values per sweep, got %d", s.sweep.MaxPoints, len(req.Values))
	}
	return nil
}

func (s *CalculationService) hasDesign(design study.Design) bool {
	for _, d := range s.calculators.Designs() {
		if d.Design == design {
			return true
		}
	}
	return false
}

func (s *CalculationService) evaluatePoint(req SweepRequest, v float64) study.SweepPoint {
	point := study.SweepPoint{Value: v}
	in, err := req.Base.With(req.Parameter, v)
	if err == nil {
		point.Result, err = s.calculators.Compute(req.Design, in)
	}
	if err != nil {
		point.Code = errors.GetCode(err)
		point.Error = err.Error()
		s.logger.Trace("sweep point %s=%v rejected: %v", req.Parameter, v, err)
	}
	return point
}

// summarize describes the primary metric of the successful points. Points
// reporting a different metric than the first success are skipped.
func summarize(points []study.SweepPoint) (*study.SweepSummary, error) {
	var metric study.Metric
	var data stats.Float64Data
	for _, p := range points {
		if !p.OK() {
			continue
		}
		m, v, ok := p.Result.PrimaryMetric()
		if !ok {
			continue
		}
		if metric == "" {
			metric = m
		}
		if m == metric {
			data = append(data, v)
		}
	}
	if len(data) == 0 {
		return nil, nil
	}

	summary := &study.SweepSummary{Metric: metric, Count: data.Len()}
	var err error
	if summary.Min, err = data.Min(); err != nil {
		return nil, errors.Wrap(err, "summarize sweep")
	}
	if summary.Max, err = data.Max(); err != nil {
		return nil, errors.Wrap(err, "summarize sweep")
	}
	if summary.Median, err = data.Median(); err != nil {
		return nil, errors.Wrap(err, "summarize sweep")
	}
	mean, err := data.Mean()
	if err != nil {
		return nil, errors.Wrap(err, "summarize sweep")
	}
	summary.Mean = round(mean, 6)
	return summary, nil
}

func round(v float64, places int) float64 {
	r, err := stats.Round(v, places)
	if err != nil || math.IsNaN(r) {
		return v
	}
	return r
}

// String renders a one-line description of the calculation
func (c *Calculation) String() string {
	return fmt.Sprintf("%s %s: %s", c.ID, c.Design, c.Result.Interpretation)
}

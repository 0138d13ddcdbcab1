package extract

import (
	"context"
	"log"
)

// Strategy is one way of locating form fields in recovered text. The AI
// collaborator and the heuristic pipeline both implement it.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, text string) (ExtractionResult, error)
}

// HeuristicStrategy wraps the rule-based pipeline as a Strategy. It is the
// chain's terminal member and never returns an error.
type HeuristicStrategy struct {
	pipeline *Pipeline
}

// NewHeuristicStrategy wraps a pipeline.
func NewHeuristicStrategy(pipeline *Pipeline) *HeuristicStrategy {
	return &HeuristicStrategy{pipeline: pipeline}
}

func (s *HeuristicStrategy) Name() string { return "heuristic" }

func (s *HeuristicStrategy) Extract(_ context.Context, text string) (ExtractionResult, error) {
	return s.pipeline.Extract(text), nil
}

// Chain tries strategies in order and returns the first non-empty result.
// A strategy that errors or comes back empty hands off to the next one, so
// an unreachable AI endpoint silently degrades to the heuristic pass.
type Chain struct {
	strategies []Strategy
}

// NewChain builds a chain in the given priority order.
func NewChain(strategies ...Strategy) *Chain {
	return &Chain{strategies: strategies}
}

// Extract runs the chain. The result is empty only when every strategy
// produced nothing.
func (c *Chain) Extract(ctx context.Context, text string) ExtractionResult {
	for _, s := range c.strategies {
		result, err := s.Extract(ctx, text)
		if err != nil {
			log.Printf("extraction strategy %s failed: %v", s.Name(), err)
			continue
		}
		if !result.Empty() {
			return result
		}
	}
	return ExtractionResult{Tier: TierNone, SourceLength: len(text)}
}

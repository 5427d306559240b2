package scheduler

import (
	"fmt"
	"strings"

	"github.com/noah-isme/timetable-api/internal/models"
)

const (
	StrategyFirstFit     = "first_fit"
	StrategyBacktracking = "backtracking"

	// DefaultBacktrackBudget caps the number of tentative commits a backtracking run may make.
	DefaultBacktrackBudget = 200000
)

// Strategy searches a Problem for a complete assignment set.
type Strategy interface {
	Name() string
	Solve(p *Problem) ([]models.Assignment, error)
}

// StrategyByName resolves a configured strategy name.
func StrategyByName(name string, budget int) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", StrategyFirstFit:
		return FirstFit{}, nil
	case StrategyBacktracking:
		return Backtracking{Budget: budget}, nil
	default:
		return nil, fmt.Errorf("unknown scheduling strategy %q", name)
	}
}

// FirstFit commits the first feasible candidate of each session and never revisits earlier choices, so it
// can report infeasibility that a different choice for an earlier session would have avoided.
type FirstFit struct{}

func (FirstFit) Name() string { return StrategyFirstFit }

func (FirstFit) Solve(p *Problem) ([]models.Assignment, error) {
	out := make([]models.Assignment, 0, len(p.sessions))
	for _, session := range p.sessions {
		var (
			chosen models.Assignment
			found  bool
		)
		p.Candidates(session, func(candidate models.Assignment) bool {
			chosen, found = candidate, true
			return false
		})
		if !found {
			return nil, infeasible(session)
		}
		p.tracker.Commit(chosen)
		out = append(out, chosen)
	}
	return out, nil
}

// Backtracking is a depth-first search that undoes the most recent commit and tries the next candidate
// when a later session cannot be placed. Its first branch is the first-fit choice, so whenever first-fit
// succeeds both strategies return the same assignments.
type Backtracking struct {
	Budget int
}

func (Backtracking) Name() string { return StrategyBacktracking }

func (b Backtracking) Solve(p *Problem) ([]models.Assignment, error) {
	budget := b.Budget
	if budget <= 0 {
		budget = DefaultBacktrackBudget
	}
	s := &backtrackSearch{
		problem: p,
		budget:  budget,
		out:     make([]models.Assignment, len(p.sessions)),
		deepest: -1,
	}
	if s.place(0) {
		return s.out, nil
	}
	if s.exhausted {
		return nil, ErrSearchBudgetExceeded
	}
	return nil, infeasible(p.sessions[s.deepest])
}

type backtrackSearch struct {
	problem   *Problem
	budget    int
	nodes     int
	exhausted bool
	out       []models.Assignment
	// deepest is the furthest session index that could not be placed.
	deepest int
}

func (s *backtrackSearch) place(k int) bool {
	if k == len(s.problem.sessions) {
		return true
	}
	placed := false
	s.problem.Candidates(s.problem.sessions[k], func(candidate models.Assignment) bool {
		if s.nodes >= s.budget {
			s.exhausted = true
			return false
		}
		s.nodes++
		s.problem.tracker.Commit(candidate)
		s.out[k] = candidate
		if s.place(k + 1) {
			placed = true
			return false
		}
		s.problem.tracker.Release(candidate)
		return !s.exhausted
	})
	if !placed && k > s.deepest {
		s.deepest = k
	}
	return placed
}

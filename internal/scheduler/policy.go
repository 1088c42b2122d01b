package scheduler

import (
	"fmt"

	"github.com/nordvik-omsorg/vaktliste/backend/internal/domain"
)

// pick runs the selection policy over a candidate pool for one slot and
// commits the winner's counters. A nil return means the pool was empty; the
// caller records the placement failure.
//
// Ranking, in order of precedence:
//  1. drop candidates at their per-slot cap, unless that empties the pool
//     (coverage wins over fairness);
//  2. prefer candidates with zero total shifts this month, except the
//     restricted worker;
//  3. lowest composite score, ties broken by pool order.
func (s *Scheduler) pick(pool []*domain.Employee, shift *domain.Shift) *domain.Employee {
	if len(pool) == 0 {
		return nil
	}

	underCap := make([]*domain.Employee, 0, len(pool))
	for _, e := range pool {
		if s.counter.perShift(e.ID, shift.ID) < s.cap(e, shift) {
			underCap = append(underCap, e)
		}
	}
	candidates := underCap
	if len(candidates) == 0 {
		// Everyone is at cap. Emergency fallback: ignore the cap.
		candidates = pool
	}

	fresh := make([]*domain.Employee, 0, len(candidates))
	for _, e := range candidates {
		if !e.Restricted() && s.counter.total(e.ID) == 0 {
			fresh = append(fresh, e)
		}
	}
	if len(fresh) > 0 {
		candidates = fresh
	}

	best := candidates[0]
	bestScore := s.score(best, shift)
	for _, e := range candidates[1:] {
		if score := s.score(e, shift); score < bestScore {
			best = e
			bestScore = score
		}
	}

	s.counter.commit(best.ID, shift.ID)
	return best
}

// cap returns the per-slot ceiling for one employee on one shift. The
// restricted worker gets the tighter cap on the anchor-target slot only.
func (s *Scheduler) cap(e *domain.Employee, shift *domain.Shift) int {
	if e.Restricted() && shift.AnchorTarget {
		return s.params.RestrictedCap
	}
	return s.params.PerShiftCap
}

// score is the composite fairness metric: overall load weighs ten times more
// than per-slot imbalance.
func (s *Scheduler) score(e *domain.Employee, shift *domain.Shift) int {
	return s.counter.total(e.ID)*10 + s.counter.perShift(e.ID, shift.ID)*5
}

func (s *Scheduler) placementFailure(day int, shift *domain.Shift, dept domain.Department) {
	msg := fmt.Sprintf("no eligible employee for shift %d on day %d", shift.ID, day)
	if dept != "" {
		msg = fmt.Sprintf("no eligible %s employee for shift %d on day %d", dept, shift.ID, day)
	}
	s.warnf(Warning{
		Kind:    WarningPlacementFailure,
		Day:     day,
		ShiftID: shift.ID,
		Message: msg,
	})
}

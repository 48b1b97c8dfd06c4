package schedule

import "lessonsolver/internal/pb"

// composeObjective builds the single additive weighted sum: per-lesson reward
// scaled by the (requester, subject) priority multiplier and, for group
// lessons, the group weight; a bonus per consecutive adjacency; a penalty per
// load deviation bit. A weight of 0 removes a term entirely.
func composeObjective(m *pb.Model, cfg Config, roster *Roster, space *VariableSpace, adjacency, deviations []pb.Var) {
	for _, key := range space.Keys {
		weight := cfg.LessonReward
		if multiplier, ok := cfg.SubjectWeights[SubjectWeightKey{RequesterID: key.RequesterID, SubjectID: key.SubjectID}]; ok {
			weight *= multiplier
		}
		if requester := roster.RequesterByID(key.RequesterID); requester != nil && requester.Group {
			weight *= cfg.GroupWeight
		}
		v, _ := space.Var(key)
		m.AddObjectiveTerm(v, weight)
	}
	for _, adj := range adjacency {
		m.AddObjectiveTerm(adj, cfg.ConsecutiveWeight)
	}
	for _, dev := range deviations {
		m.AddObjectiveTerm(dev, -cfg.BalanceWeight)
	}
}

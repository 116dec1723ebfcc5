package effects

// Prune removes expired and consumed effects and expired player restrictions.
// It returns the number of effects removed. Queries already ignore expired
// effects, so calling Prune only bounds memory.
func (s *System) Prune() int {
	now := s.game.Now()
	kept := s.active[:0]
	for _, e := range s.active {
		if e.ActiveAt(now) {
			kept = append(kept, e)
		}
	}
	removed := len(s.active) - len(kept)
	s.active = kept
	for _, p := range s.game.Players() {
		p.PruneRestrictions(now)
	}
	return removed
}

// ForgetCard drops cardID from every effect's targets. A card that leaves
// play is a new object and keeps none of its temporary effects; effects left
// without targets are removed.
func (s *System) ForgetCard(cardID string) {
	kept := s.active[:0]
	for _, e := range s.active {
		if !e.Targets(cardID) {
			kept = append(kept, e)
			continue
		}
		var targets []string
		for _, id := range e.TargetIDs {
			if id != cardID {
				targets = append(targets, id)
			}
		}
		if len(targets) == 0 && e.PlayerID == "" {
			continue
		}
		e.TargetIDs = targets
		kept = append(kept, e)
	}
	s.active = kept
}

// Retarget moves every effect on oldID to newID. Shifting a character onto
// another keeps the effects applied to the one beneath.
func (s *System) Retarget(oldID, newID string) {
	for i := range s.active {
		for j, id := range s.active[i].TargetIDs {
			if id == oldID {
				s.active[i].TargetIDs[j] = newID
			}
		}
	}
}

// RemoveEffectsFromSource removes every effect created by sourceID.
func (s *System) RemoveEffectsFromSource(sourceID string) {
	if sourceID == "" {
		return
	}
	kept := s.active[:0]
	for _, e := range s.active {
		if e.SourceID != sourceID {
			kept = append(kept, e)
		}
	}
	s.active = kept
}

// RemoveEffect removes an effect by id.
func (s *System) RemoveEffect(id string) {
	for i, e := range s.active {
		if e.EffectID == id {
			s.active = append(s.active[:i], s.active[i+1:]...)
			return
		}
	}
}

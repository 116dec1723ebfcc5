package bot

import (
	"context"
	"sort"

	"github.com/inkwell-tcg/inkwell-engine/internal/game/ability"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/choice"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/state"
)

// Handler answers the requests of a bot seat at once.
func (p *Policy) Handler() choice.HandlerFunc {
	return func(ctx context.Context, req choice.Request) (choice.Response, error) {
		if err := ctx.Err(); err != nil {
			return choice.Response{}, err
		}
		return p.RespondToChoiceRequest(req), nil
	}
}

// RespondToChoiceRequest picks the best valid options for req. Options the
// policy has no opinion on are picked at random; optional requests with
// nothing worth picking are declined.
func (p *Policy) RespondToChoiceRequest(req choice.Request) choice.Response {
	valid := req.ValidOptions()
	if len(valid) == 0 {
		if req.Optional {
			return choice.Decline(req)
		}
		return choice.Select(req)
	}

	switch req.Kind {
	case choice.KindMay:
		if p.acceptMay(req) {
			return choice.Select(req, choice.OptionYes)
		}
		return choice.Select(req, choice.OptionNo)
	case choice.KindMulligan:
		var hand []*state.Card
		for _, o := range valid {
			if c := p.card(o.CardID); c != nil {
				hand = append(hand, c)
			}
		}
		back := p.DecideMulligan(hand)
		if len(back) > req.Max {
			back = back[:req.Max]
		}
		if len(back) == 0 {
			return choice.Decline(req)
		}
		return choice.Select(req, back...)
	case choice.KindDiscard:
		ranked := p.rank(req, valid, p.discardScore)
		ids := make([]string, 0, len(ranked))
		for _, o := range ranked[:p.count(req, len(ranked))] {
			ids = append(ids, o.ID)
		}
		return choice.Select(req, ids...)
	}
	return p.pickTargets(req, valid)
}

// acceptMay says yes to optional effects. Bodyguard enters exerted only for
// a policy that cares more about defence than attack.
func (p *Policy) acceptMay(req choice.Request) bool {
	if req.Source.AbilityID == string(ability.Bodyguard) {
		return p.profile.Caution >= p.profile.Aggression
	}
	return true
}

// count is how many options a non-declined answer selects.
func (p *Policy) count(req choice.Request, available int) int {
	n := req.RequiredCount()
	if n == 0 && req.Max > 0 {
		n = 1
	}
	if n > available {
		n = available
	}
	return n
}

func (p *Policy) pickTargets(req choice.Request, valid []choice.Option) choice.Response {
	scored := make([]float64, len(valid))
	informed := false
	for i, o := range valid {
		scored[i] = p.targetScore(req, o)
		if scored[i] != 0 {
			informed = true
		}
	}
	if !informed {
		return p.randomPick(req, valid)
	}

	order := p.rank(req, valid, func(o choice.Option) float64 { return p.targetScore(req, o) })
	var ids []string
	for _, o := range order {
		if len(ids) == req.Max {
			break
		}
		if len(ids) >= req.RequiredCount() && p.targetScore(req, o) <= 0 {
			break
		}
		ids = append(ids, o.ID)
	}
	if len(ids) == 0 && req.Optional {
		return choice.Decline(req)
	}
	return choice.Select(req, ids...)
}

func (p *Policy) randomPick(req choice.Request, valid []choice.Option) choice.Response {
	shuffled := append([]choice.Option(nil), valid...)
	p.rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	n := p.count(req, len(shuffled))
	ids := make([]string, 0, n)
	for _, o := range shuffled[:n] {
		ids = append(ids, o.ID)
	}
	return choice.Select(req, ids...)
}

// rank orders options best first. Ties keep the request's order.
func (p *Policy) rank(_ choice.Request, valid []choice.Option, score func(choice.Option) float64) []choice.Option {
	out := append([]choice.Option(nil), valid...)
	sort.SliceStable(out, func(i, j int) bool { return score(out[i]) > score(out[j]) })
	return out
}

// targetScore is positive for options the effect should land on. Player
// options carry the player id and no card.
func (p *Policy) targetScore(req choice.Request, o choice.Option) float64 {
	var mine bool
	weight := 1.0
	if o.CardID == "" {
		mine = o.ID == req.PlayerID
	} else {
		c := p.card(o.CardID)
		if c == nil {
			return 0
		}
		mine = c.Owner == req.PlayerID
		weight = 1 + p.value(c)
	}

	switch req.Hint {
	case choice.HintHarmful:
		if mine {
			return -weight
		}
		return weight
	case choice.HintBeneficial:
		if mine {
			return weight
		}
		return -weight
	}
	return 0
}

// discardScore prefers the least valuable cards.
func (p *Policy) discardScore(o choice.Option) float64 {
	c := p.card(o.CardID)
	if c == nil {
		return 0
	}
	return -p.value(c)
}

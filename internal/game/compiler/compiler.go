// Package compiler turns printed card text into ability definitions.
//
// Each printed ability is normalized into a clause, categorized, and matched
// against that category's pattern table. Tables are ordered by specificity so
// a narrow shape ("when you play this character, if you used Shift ...") is
// tried before the general one it is a special case of. Text no pattern
// understands produces no definition.
package compiler

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/inkwell-tcg/inkwell-engine/internal/catalog"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/ability"
	"github.com/inkwell-tcg/inkwell-engine/internal/gamelog"
)

// CompileError records a card whose text could not be compiled at all.
type CompileError struct {
	CardID string
	Text   string
	Cause  any
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile %s: %v", e.CardID, e.Cause)
}

// Result is the outcome of compiling one card.
type Result struct {
	Definitions []ability.Definition
	// Unmatched lists printed clauses that produced no definition.
	Unmatched []string
}

// Compiler compiles card definitions. It holds no per-card state and is safe
// to reuse across cards.
type Compiler struct {
	logger gamelog.Logger
}

// New creates a compiler. A nil logger discards diagnostics.
func New(logger gamelog.Logger) *Compiler {
	if logger == nil {
		logger = gamelog.Nop()
	}
	return &Compiler{logger: logger}
}

// Compile returns the definitions for def. It never panics; a card that
// fails to compile yields an empty list and a logged error.
func (c *Compiler) Compile(def catalog.Definition) []ability.Definition {
	res, err := c.CompileCard(def)
	if err != nil {
		c.logger.Error("card failed to compile", zap.String("card", def.ID), zap.Error(err))
		return nil
	}
	return res.Definitions
}

// CompileCard compiles def and reports unmatched clauses.
func (c *Compiler) CompileCard(def catalog.Definition) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{}
			err = &CompileError{CardID: def.ID, Text: def.FullName(), Cause: r}
		}
	}()

	for _, cl := range clauses(def) {
		defs, name, ok := tables[cl.category].match(cl.text, cl)
		if !ok {
			res.Unmatched = append(res.Unmatched, cl.raw)
			c.logger.Debug("no pattern matched",
				zap.String("card", def.ID),
				zap.String("category", string(cl.category)),
				zap.String("text", cl.text),
			)
			continue
		}
		for i := range defs {
			d := &defs[i]
			d.ID = abilityID(def.ID, cl.index, i)
			d.CardID = def.ID
			d.Name = cl.name
			d.Text = cl.raw
			if d.Kind == ability.KindKeyword {
				continue
			}
			collapseOptional(d)
		}
		c.logger.Debug("clause compiled",
			zap.String("card", def.ID),
			zap.String("pattern", name),
			zap.Int("definitions", len(defs)),
		)
		res.Definitions = append(res.Definitions, defs...)
	}
	return res, nil
}

// CompileAll compiles every definition of a catalog, keyed by card id.
func (c *Compiler) CompileAll(defs []catalog.Definition) map[string][]ability.Definition {
	out := make(map[string][]ability.Definition, len(defs))
	for _, def := range defs {
		out[def.ID] = c.Compile(def)
	}
	return out
}

// abilityID is stable across runs for the same card text.
func abilityID(cardID string, clauseIndex, ordinal int) string {
	seed := fmt.Sprintf("%s|%d|%d", cardID, clauseIndex, ordinal)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed)).String()
}

// collapseOptional lifts "you may" to the ability when it covers every effect.
func collapseOptional(d *ability.Definition) {
	if len(d.Effects) == 0 {
		return
	}
	for _, e := range d.Effects {
		if !e.Optional {
			return
		}
	}
	d.Optional = true
	for i := range d.Effects {
		d.Effects[i].Optional = false
	}
}

package main

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/inkwell-tcg/inkwell-engine/internal/game/bot"
)

type statsLine struct {
	lore       int
	quests     int
	challenges int
	played     int
}

type gameResult struct {
	bot.Result
	stats map[string]statsLine
}

type summary struct {
	games   int
	failed  int
	unended int
	turns   int
	wins    map[string]int
	totals  map[string]statsLine
}

func newSummary() *summary {
	return &summary{wins: make(map[string]int), totals: make(map[string]statsLine)}
}

func (s *summary) add(res gameResult) {
	s.games++
	s.turns += res.Turns
	if res.Winner == "" {
		s.unended++
	} else {
		s.wins[res.Winner]++
	}
	for id, line := range res.stats {
		t := s.totals[id]
		t.lore += line.lore
		t.quests += line.quests
		t.challenges += line.challenges
		t.played += line.played
		s.totals[id] = t
	}
}

func (s *summary) print(w io.Writer) {
	fmt.Fprintf(w, "\n=== Simulation Complete ===\n")
	fmt.Fprintf(w, "Games: %d (failed %d, unfinished %d)\n", s.games, s.failed, s.unended)
	if s.games == 0 {
		return
	}
	fmt.Fprintf(w, "Average turns: %.1f\n\n", float64(s.turns)/float64(s.games))

	ids := make([]string, 0, len(s.totals))
	for id := range s.totals {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PLAYER\tWINS\tWIN %\tAVG LORE\tQUESTS\tCHALLENGES\tCARDS PLAYED")
	for _, id := range ids {
		t := s.totals[id]
		n := float64(s.games)
		fmt.Fprintf(tw, "%s\t%d\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\n",
			id, s.wins[id], 100*float64(s.wins[id])/n,
			float64(t.lore)/n, float64(t.quests)/n, float64(t.challenges)/n, float64(t.played)/n)
	}
	tw.Flush()
}

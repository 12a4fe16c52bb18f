package prompt

import (
	"errors"
	"strings"
	"testing"

	"github.com/opark001/vertex-gemini-web/internal/game"
	"github.com/opark001/vertex-gemini-web/internal/roster"
)

func sampleTeam() []game.RosterEntry {
	return []game.RosterEntry{
		{Name: "Kim", Ability: "fire"},
		{Name: "Lee", Ability: "ice"},
		{Name: "Park", Ability: "wind"},
	}
}

func TestBuildListsBothTeams(t *testing.T) {
	reg := roster.Default()
	a := NewAssembler(reg)

	out := a.Build(1, sampleTeam())
	lines := strings.Split(out, "\n")
	if len(lines) != 8 {
		t.Fatalf("expected 8 lines, got %d:\n%s", len(lines), out)
	}
	if lines[0] != "팀 A" || lines[4] != "팀 B" {
		t.Fatalf("unexpected headings: %q / %q", lines[0], lines[4])
	}
	wantA := []string{
		"- 이름: Kim / 능력: fire",
		"- 이름: Lee / 능력: ice",
		"- 이름: Park / 능력: wind",
	}
	for i, w := range wantA {
		if lines[1+i] != w {
			t.Fatalf("team A line %d: want %q got %q", i, w, lines[1+i])
		}
	}
	for i, opp := range reg.ForStage(1) {
		want := "- 이름: " + opp.Name + " / 능력: " + opp.Ability
		if lines[5+i] != want {
			t.Fatalf("team B line %d: want %q got %q", i, want, lines[5+i])
		}
	}
}

func TestBuildTrimsUserEntries(t *testing.T) {
	a := NewAssembler(roster.Default())
	team := sampleTeam()
	team[0] = game.RosterEntry{Name: "  Kim ", Ability: "\tfire\n"}
	out := a.Build(2, team)
	if !strings.Contains(out, "- 이름: Kim / 능력: fire\n") {
		t.Fatalf("expected trimmed entry, got:\n%s", out)
	}
	if !strings.Contains(out, "아카자") {
		t.Fatalf("expected stage-2 opponents, got:\n%s", out)
	}
}

func TestValidateTeam(t *testing.T) {
	if err := ValidateTeam(sampleTeam()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateTeam(sampleTeam()[:2]); !errors.Is(err, ErrTeamSize) {
		t.Fatalf("expected ErrTeamSize, got %v", err)
	}
	team := sampleTeam()
	team[1].Ability = "   "
	err := ValidateTeam(team)
	var ee *EntryError
	if !errors.As(err, &ee) || ee.Index != 1 {
		t.Fatalf("expected EntryError at index 1, got %v", err)
	}
	if err.Error() != "teamA[1] requires non-empty name and ability" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

package keys

import (
	"testing"

	"github.com/opark001/vertex-gemini-web/internal/game"
)

func TestTeamKeyFromNamesIsOrderIndependent(t *testing.T) {
	a := TeamKeyFromNames([]string{"Lee", " Kim ", "Park Ji"})
	b := TeamKeyFromNames([]string{"park  ji", "kim", "LEE"})
	if a != b {
		t.Fatalf("expected equal keys, got %q and %q", a, b)
	}
	if a != "kim_lee_park_ji" {
		t.Fatalf("unexpected key %q", a)
	}
}

func TestTeamKeySkipsBlankNames(t *testing.T) {
	got := TeamKey([]game.RosterEntry{{Name: "용사"}, {Name: "  "}, {Name: "마법사"}})
	if got != "마법사_용사" {
		t.Fatalf("unexpected key %q", got)
	}
}

package catalog

import "testing"

func TestEveryAreaHasThreeTiers(t *testing.T) {
	for _, area := range Areas() {
		if len(area.Options) != 3 {
			t.Fatalf("area %s has %d options, want 3", area.ID, len(area.Options))
		}
		tiers := map[int]bool{}
		for _, opt := range area.Options {
			tiers[opt.Tier] = true
			if opt.Area != area.ID {
				t.Fatalf("option %s carries area %q, want %q", opt.ID, opt.Area, area.ID)
			}
		}
		for tier := 1; tier <= 3; tier++ {
			if !tiers[tier] {
				t.Fatalf("area %s missing tier %d", area.ID, tier)
			}
		}
	}
}

func TestLookup(t *testing.T) {
	opt, ok := Lookup("p3")
	if !ok {
		t.Fatal("p3 should exist")
	}
	if opt.Tier != 3 || opt.Area != "psychosocial" {
		t.Fatalf("unexpected option: %+v", opt)
	}
	if _, ok := Lookup("zzz"); ok {
		t.Fatal("unknown id should not resolve")
	}
}

func TestAreaLookupAndTitles(t *testing.T) {
	area, ok := Area("financial")
	if !ok {
		t.Fatal("financial area should exist")
	}
	if area.Title == "" {
		t.Fatal("area title empty")
	}
	opt, _ := Lookup("f1")
	if opt.AreaTitle != area.Title {
		t.Fatalf("option area title = %q, want %q", opt.AreaTitle, area.Title)
	}
	if _, ok := Area("f1"); ok {
		t.Fatal("option id must not resolve as an area")
	}
}

func TestSelectionsSetSemantics(t *testing.T) {
	sel, err := Selections("a1", "a1", "l2")
	if err != nil {
		t.Fatal(err)
	}
	if len(sel) != 2 {
		t.Fatalf("got %d selections, want 2 (duplicates collapse)", len(sel))
	}
	if sel[0].ID != "a1" || sel[1].ID != "l2" {
		t.Fatalf("unexpected order: %v", sel)
	}
	if _, err := Selections("a1", "bogus"); err == nil {
		t.Fatal("unknown id must error")
	}
}

package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDiff(t *testing.T) {
	base := &NavigationContext{
		CurrentRoute:  "/dashboard",
		CurrentState:  "dashboard",
		BackendStatus: BackendActive,
		Initialized:   true,
	}

	t.Run("Initial Load (Old is Nil)", func(t *testing.T) {
		d := Diff("sess-1", nil, base, nil, []string{"/", "/dashboard"})
		if d == nil {
			t.Fatal("expected diff")
		}
		if d.CurrentRoute == nil || *d.CurrentRoute != "/dashboard" {
			t.Errorf("expected current_route /dashboard, got %v", d.CurrentRoute)
		}
		if d.HistoryParams == nil || len(d.HistoryParams.Appended) != 2 {
			t.Errorf("expected full history, got %+v", d.HistoryParams)
		}
	})

	t.Run("No Changes", func(t *testing.T) {
		same := *base
		if d := Diff("sess-1", base, &same, []string{"/"}, []string{"/"}); d != nil {
			t.Errorf("expected nil diff, got %+v", d)
		}
	})

	t.Run("Route And State Change", func(t *testing.T) {
		next := *base
		next.CurrentRoute = "/design/genetic"
		next.CurrentState = "design"
		next.Substate = "genetic"

		d := Diff("sess-1", base, &next, []string{"/", "/dashboard"}, []string{"/", "/dashboard", "/design", "/design/genetic"})
		if d == nil {
			t.Fatal("expected diff")
		}
		if d.BackendStatus != nil {
			t.Error("backend status did not change")
		}
		if got := d.HistoryParams.Appended; strings.Join(got, ",") != "/design,/design/genetic" {
			t.Errorf("unexpected appended history %v", got)
		}

		data, err := json.Marshal(d)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), `"substate":"genetic"`) {
			t.Errorf("expected substate in JSON, got %s", data)
		}
	})
}

func TestDiffHistory(t *testing.T) {
	tests := []struct {
		name string
		old  []string
		new  []string
		want []string
	}{
		{"empty new", []string{"/"}, nil, nil},
		{"append", []string{"/"}, []string{"/", "/dashboard"}, []string{"/dashboard"}},
		{"same route appended", []string{"/", "/dashboard"}, []string{"/", "/dashboard", "/dashboard"}, []string{"/dashboard"}},
		{"bounded eviction", []string{"/", "/a", "/b"}, []string{"/a", "/b", "/c"}, []string{"/c"}},
		{"unchanged", []string{"/", "/a"}, []string{"/", "/a"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DiffHistory(tt.old, tt.new)
			if tt.want == nil {
				if got != nil {
					t.Errorf("expected nil, got %v", got.Appended)
				}
				return
			}
			if got == nil || strings.Join(got.Appended, ",") != strings.Join(tt.want, ",") {
				t.Errorf("expected %v, got %+v", tt.want, got)
			}
		})
	}
}

func TestDiff_RepeatedRoutesInBoundedHistory(t *testing.T) {
	old := &NavigationContext{CurrentRoute: "/design", CurrentState: "design", Navigations: 7}
	next := *old
	next.Navigations = 8

	// With a limit of 2 the history looks identical before and after.
	history := []string{"/design", "/design"}
	d := Diff("sess-1", old, &next, history, history)
	if d == nil || d.HistoryParams == nil {
		t.Fatalf("expected a history diff, got %+v", d)
	}
	if got := d.HistoryParams.Appended; strings.Join(got, ",") != "/design" {
		t.Errorf("unexpected appended history %v", got)
	}
}

func TestHistorySince(t *testing.T) {
	tests := []struct {
		name    string
		history []string
		n       uint64
		want    []string
	}{
		{"none", []string{"/", "/a"}, 0, nil},
		{"last one", []string{"/", "/a", "/a"}, 1, []string{"/a"}},
		{"more than held", []string{"/b", "/c"}, 5, []string{"/b", "/c"}},
		{"empty history", nil, 3, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HistorySince(tt.history, tt.n)
			if tt.want == nil {
				if got != nil {
					t.Errorf("expected nil, got %+v", got)
				}
				return
			}
			if got == nil || strings.Join(got.Appended, ",") != strings.Join(tt.want, ",") {
				t.Errorf("HistorySince() = %+v, want %v", got, tt.want)
			}
		})
	}
}

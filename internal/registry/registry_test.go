package registry

import (
	"errors"
	"testing"

	"github.com/vovakirdan/collapse/internal/core"
)

type stubGame struct{ id string }

func (g stubGame) ID() string { return g.id }
func (g stubGame) Title() string { return "Stub " + g.id }
func (g stubGame) Reset(core.RuntimeConfig) {}
func (g stubGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (g stubGame) Render(*core.Screen) {}
func (g stubGame) State() core.GameState { return core.GameState{} }
func (g stubGame) Description() string { return "a stub" }

func TestRegisterListCreate(t *testing.T) {
	Register("zz_stub_b", func() Game { return stubGame{id: "zz_stub_b"} })
	Register("zz_stub_a", func() Game { return stubGame{id: "zz_stub_a"} })

	var got []GameInfo
	for _, info := range List() {
		if info.ID == "zz_stub_a" || info.ID == "zz_stub_b" {
			got = append(got, info)
		}
	}
	if len(got) != 2 || got[0].ID != "zz_stub_a" {
		t.Fatalf("List() = %+v, want both stubs sorted", got)
	}
	if got[0].Title != "Stub zz_stub_a" || got[0].Description != "a stub" {
		t.Errorf("info = %+v", got[0])
	}

	g, err := Create("zz_stub_b")
	if err != nil || g.ID() != "zz_stub_b" {
		t.Errorf("Create() = %v, %v", g, err)
	}
	if !Exists("zz_stub_a") || Exists("zz_missing") {
		t.Error("Exists() mismatch")
	}
	if _, err := Create("zz_missing"); !errors.Is(err, ErrUnknownGame) {
		t.Errorf("Create(missing) error = %v, want ErrUnknownGame", err)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("zz_stub_dup", func() Game { return stubGame{id: "zz_stub_dup"} })
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	Register("zz_stub_dup", func() Game { return stubGame{id: "zz_stub_dup"} })
}

package engine

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/Carmen-Shannon/oxy-pbr/engine/config"
)

// Effect selects which pipeline renders the frame.
type Effect int

const (
	EffectSimple Effect = iota
	EffectPbr
	EffectEquirect
	effectCount
)

// ParseEffect maps a config value to an Effect.
//
// Parameters:
//   - s: one of "simple", "pbr" or "equirect"
//
// Returns:
//   - Effect: the effect
//   - error: an error for any other value
func ParseEffect(s string) (Effect, error) {
	switch s {
	case config.EffectSimple:
		return EffectSimple, nil
	case config.EffectPbr:
		return EffectPbr, nil
	case config.EffectEquirect:
		return EffectEquirect, nil
	}
	return EffectSimple, fmt.Errorf("unknown effect %q", s)
}

func (e Effect) String() string {
	switch e {
	case EffectSimple:
		return config.EffectSimple
	case EffectPbr:
		return config.EffectPbr
	case EffectEquirect:
		return config.EffectEquirect
	}
	return fmt.Sprintf("Effect(%d)", int(e))
}

type commandKind int

const (
	commandNone commandKind = iota
	commandQuit
	commandSelectEffect
	commandCycleGeometry
	commandCycleTexture
)

// command is what a key press asks the engine to do.
type command struct {
	kind   commandKind
	effect Effect
}

// keyCommand maps a key press (not a release) to a command given the current effect.
// R toggles between Simple and Pbr and returns to Simple from Equirect. Space and T only
// act while Simple is showing.
func keyCommand(current Effect, key int) command {
	switch key {
	case common.KeyEsc:
		return command{kind: commandQuit}
	case common.KeyR:
		next := EffectPbr
		if current != EffectSimple {
			next = EffectSimple
		}
		return command{kind: commandSelectEffect, effect: next}
	case common.Key1:
		return command{kind: commandSelectEffect, effect: EffectSimple}
	case common.Key2:
		return command{kind: commandSelectEffect, effect: EffectPbr}
	case common.Key3:
		return command{kind: commandSelectEffect, effect: EffectEquirect}
	case common.KeySpace:
		if current == EffectSimple {
			return command{kind: commandCycleGeometry}
		}
	case common.KeyT:
		if current == EffectSimple {
			return command{kind: commandCycleTexture}
		}
	}
	return command{kind: commandNone}
}

package layer

import (
	"errors"
	"fmt"
)

// Behavior decides how a layer takes part in responsibility resolution and
// whether it reacts once responsible.
type Behavior int

const (
	// Close claims responsibility and fires its callback.
	Close Behavior = iota
	// DeferOtherwiseClose yields to claiming layers; as the outermost
	// fallback it fires its callback.
	DeferOtherwiseClose
	// DeferOtherwiseIgnore yields to claiming layers; as the outermost
	// fallback it stays silent.
	DeferOtherwiseIgnore
	// Ignore claims responsibility and swallows the interaction.
	Ignore
)

var ErrUnknownBehavior = errors.New("unknown layer behavior")

func ParseBehavior(s string) (Behavior, error) {
	switch s {
	case "close":
		return Close, nil
	case "defer-otherwise-close":
		return DeferOtherwiseClose, nil
	case "defer-otherwise-ignore":
		return DeferOtherwiseIgnore, nil
	case "ignore":
		return Ignore, nil
	}
	return Close, fmt.Errorf("%w: %q", ErrUnknownBehavior, s)
}

func (b Behavior) String() string {
	switch b {
	case Close:
		return "close"
	case DeferOtherwiseClose:
		return "defer-otherwise-close"
	case DeferOtherwiseIgnore:
		return "defer-otherwise-ignore"
	case Ignore:
		return "ignore"
	}
	return fmt.Sprintf("behavior(%d)", int(b))
}

// Claims reports whether the layer takes responsibility away from every
// other layer when it is the topmost claimant.
func (b Behavior) Claims() bool {
	switch b {
	case Close, Ignore:
		return true
	case DeferOtherwiseClose, DeferOtherwiseIgnore:
		return false
	}
	panic(fmt.Sprintf("layer: unhandled %s", b))
}

// Fires reports whether a responsible layer invokes its callback.
func (b Behavior) Fires() bool {
	switch b {
	case Close, DeferOtherwiseClose:
		return true
	case Ignore, DeferOtherwiseIgnore:
		return false
	}
	panic(fmt.Sprintf("layer: unhandled %s", b))
}

func (b Behavior) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *Behavior) UnmarshalText(text []byte) error {
	parsed, err := ParseBehavior(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

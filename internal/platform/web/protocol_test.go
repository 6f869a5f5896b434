package web

import (
	"errors"
	"testing"

	"github.com/vovakirdan/tui-snake/internal/core"
)

func TestActionFor(t *testing.T) {
	tests := []struct {
		msg     InputMessage
		action  core.Action
		wantErr bool
	}{
		{InputMessage{Type: MsgHeading, Heading: "up"}, core.ActionUp, false},
		{InputMessage{Type: MsgHeading, Heading: "LEFT"}, core.ActionLeft, false},
		{InputMessage{Type: MsgHeading, Heading: ""}, core.ActionNone, true},
		{InputMessage{Type: MsgStart}, core.ActionConfirm, false},
		{InputMessage{Type: MsgRestart}, core.ActionRestart, false},
		{InputMessage{Type: MsgAbort}, core.ActionBack, false},
		{InputMessage{Type: MsgPause}, core.ActionPause, false},
		{InputMessage{Type: "fly"}, core.ActionNone, true},
	}

	for _, tc := range tests {
		action, err := actionFor(tc.msg)
		if action != tc.action || (err != nil) != tc.wantErr {
			t.Errorf("actionFor(%+v) = %v, %v, expected %v (error %v)", tc.msg, action, err, tc.action, tc.wantErr)
		}
	}

	if _, err := actionFor(InputMessage{}); !errors.Is(err, ErrUnknownMessage) {
		t.Errorf("empty message error = %v, expected ErrUnknownMessage", err)
	}
}

func TestThemeColorsCoverPalette(t *testing.T) {
	for c := core.ColorDefault; c <= core.ColorGray; c++ {
		if cssColors[c] == "" {
			t.Errorf("color %d has no CSS value", c)
		}
	}
}

package model

import (
	"fmt"
	"strings"
)

// ActionType identifies the side effect a menu item performs when selected.
type ActionType string

const (
	CreateEmptyFile        ActionType = "createEmptyFile"
	CreateFileFromTemplate ActionType = "createFileFromTemplate"
	CreateFolder           ActionType = "createFolder"
	OpenTerminal           ActionType = "openTerminal"
	CopyFilePath           ActionType = "copyFilePath"
	CutFile                ActionType = "cutFile"
	RunShellScript         ActionType = "runShellScript"
	OpenWithApp            ActionType = "openWithApp"
	SendToDesktop          ActionType = "sendToDesktop"
	HashFile               ActionType = "hashFile"
	DeleteFile             ActionType = "deleteFile"
	ShowHiddenFiles        ActionType = "showHiddenFiles"
	Separator              ActionType = "separator"
)

// wireSep separates the action type from its parameter on the wire.
const wireSep = "|"

var actionTypes = []ActionType{
	CreateEmptyFile,
	CreateFileFromTemplate,
	CreateFolder,
	OpenTerminal,
	CopyFilePath,
	CutFile,
	RunShellScript,
	OpenWithApp,
	SendToDesktop,
	HashFile,
	DeleteFile,
	ShowHiddenFiles,
	Separator,
}

// ActionTypes returns all known action types in declaration order.
func ActionTypes() []ActionType {
	out := make([]ActionType, len(actionTypes))
	copy(out, actionTypes)
	return out
}

// Valid reports whether t is one of the known action types.
func (t ActionType) Valid() bool {
	for _, v := range actionTypes {
		if v == t {
			return true
		}
	}
	return false
}

// ParseActionType converts s into an ActionType, rejecting unknown tags.
func ParseActionType(s string) (ActionType, error) {
	t := ActionType(strings.TrimSpace(s))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
	return t, nil
}

// Action is the side effect attached to a menu item.
type Action struct {
	// Type is the action tag.
	Type ActionType `json:"type"`

	// Parameter is type dependent: file extension, template name, script path, app name.
	Parameter string `json:"parameter,omitempty"`
}

// Wire renders the action as "<type>|<parameter>".
// The parameter is rendered as an empty string when absent.
func (a Action) Wire() string {
	return string(a.Type) + wireSep + a.Parameter
}

// ParseWire parses the "<type>|<parameter>" form produced by Wire.
// Only the first separator splits, so parameters may themselves contain it.
func ParseWire(s string) (Action, error) {
	typ, param, _ := strings.Cut(s, wireSep)
	t, err := ParseActionType(typ)
	if err != nil {
		return Action{}, err
	}
	return Action{Type: t, Parameter: param}, nil
}

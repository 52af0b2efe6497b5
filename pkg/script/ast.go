package script

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Script is a parsed gesture script: one step per statement, replayed in
// order against a canvas.
type Script struct {
	Steps []*Step `@@*`
}

// Step is a single statement.
type Step struct {
	Pos lexer.Position

	Pointer *PointerStep `  @@`
	Key     *KeyStep     `| @@`
	Drop    *DropStep    `| @@`
	Call    *CallStep    `| @@`
	Expect  *ExpectStep  `| @@`
	Command *CommandStep `| @@`
}

// PointerStep is a pointer event at layout coordinates.
// Example: click 10 10 shift
type PointerStep struct {
	Kind string   `@( "press" | "drag" | "release" | "move" | "click" | "scroll" )`
	X    int      `@Int`
	Y    int      `@Int`
	Mods []string `@Mod*`
}

// KeyStep is a key press, release or both.
// Example: key z shortcut
type KeyStep struct {
	Kind string   `@( "key" | "keydown" | "keyup" )`
	Name string   `@( Ident | Mod | String )`
	Mods []string `@Mod*`
}

// DropStep is a platform drag event carrying an optional payload.
// Example: enter 100 200 "(widgets (CheckBox))" as copy
type DropStep struct {
	Kind string   `@( "enter" | "over" | "drop" )`
	X    int      `@Int`
	Y    int      `@Int`
	Data *string  `@String?`
	Op   string   `( "as" @( "copy" | "move" ) )?`
	Mods []string `@Mod*`
}

// CallStep is a command taking a string argument.
// Example: rename "ok_button"
type CallStep struct {
	Name string `@( "rename" | "action" | "clip" )`
	Arg  string `@String`
}

// CommandStep is an argument-less command.
type CommandStep struct {
	Name string `@( "copy" | "cut" | "paste" | "delete" | "duplicate" | "undo" | "redo" | "selectall" | "selectnone" | "selectparent" | "leave" | "dragend" | "cancel" )`
}

// ExpectStep checks the canvas state and stops the replay when it does
// not hold.
// Example: expect undo "Drop CheckBox in LinearLayout"
type ExpectStep struct {
	What  string  `"expect" @( "selected" | "nodes" | "undo" | "status" | "root" )`
	Count *int    `( @Int`
	Text  *string `| @String )`
}

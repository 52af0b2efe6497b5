package script

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// ScriptLexer tokenizes gesture scripts. Modifier names are their own
// token so they can trail any step without being mistaken for the next
// step's keyword.
var ScriptLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},
	{Name: "Int", Pattern: `-?[0-9]+`},
	{Name: "Mod", Pattern: `\b(?:shift|ctrl|alt|cmd|shortcut)\b`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_\-]*`},
})

package parser

var KEYWORDS = map[string]TokenType{
	"package":   PACKAGE,
	"import":    IMPORT,
	"class":     CLASS,
	"extends":   EXTENDS,
	"public":    MODIFIER,
	"private":   MODIFIER,
	"protected": MODIFIER,
	"static":    MODIFIER,
	"final":     MODIFIER,
	"void":      VOID,
	"if":        IF,
	"else":      ELSE,
	"while":     WHILE,
	"for":       FOR,
	"return":    RETURN,
	"throw":     THROW,
	"throws":    THROWS,
	"new":       NEW,
	"this":      THIS,
	"null":      NULL,
	"true":      TRUE,
	"false":     FALSE,
	"assert":    ASSERT,
	"assume":    ASSUME,

	"requires":       REQUIRES,
	"ensures":        ENSURES,
	"invariant":      INVARIANT,
	"loop_invariant": LOOP_INVARIANT,
	"decreases":      DECREASES,
}

// SPECIAL_WORDS are the backslash-prefixed contract words.
var SPECIAL_WORDS = map[string]TokenType{
	`\result`: RESULT,
	`\old`:    OLD,
	`\forall`: FORALL,
	`\exists`: EXISTS,
}

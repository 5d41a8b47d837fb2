package lang

import "github.com/smacker/go-tree-sitter/cpp"

// CPP is the registry name of the C++ grammar.
const CPP = "cpp"

func init() {
	Languages[CPP] = &Language{
		Name:       CPP,
		Extensions: []string{".h", ".hh", ".hpp", ".hxx", ".cc", ".cpp", ".cxx"},
		lang:       cpp.GetLanguage(),
	}
}

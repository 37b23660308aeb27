package signature

import "strings"

// fallbackTypes maps lower-cased extensions to a classification for content
// that carries no magic number (plain text and source code).
var fallbackTypes = map[string]Signature{
	".txt": {Type: "Text", Category: "Text", Description: "Plain text file"},
	".log": {Type: "Text", Category: "Text", Description: "Plain text file"},
	".md":  {Type: "Text", Category: "Text", Description: "Plain text file"},
	".csv": {Type: "Text", Category: "Text", Description: "Plain text file"},
	".cfg": {Type: "Text", Category: "Text", Description: "Plain text file"},
	".ini": {Type: "Text", Category: "Text", Description: "Plain text file"},

	".c":   {Type: "Source Code", Category: "Code", Description: "C/C++ source file"},
	".cpp": {Type: "Source Code", Category: "Code", Description: "C/C++ source file"},
	".h":   {Type: "Source Code", Category: "Code", Description: "C/C++ source file"},
	".hpp": {Type: "Source Code", Category: "Code", Description: "C/C++ source file"},

	".py":   {Type: "Python", Category: "Code", Description: "Python script"},
	".js":   {Type: "JavaScript", Category: "Code", Description: "JavaScript file"},
	".java": {Type: "Java", Category: "Code", Description: "Java source file"},
	".html": {Type: "HTML", Category: "Web", Description: "HTML document"},
	".htm":  {Type: "HTML", Category: "Web", Description: "HTML document"},
	".css":  {Type: "CSS", Category: "Web", Description: "Cascading Style Sheet"},
}

// Fallback classifies by extension when no signature matched.
// The returned signature never declares extensions, so fallback-typed files
// are never reported as mismatched.
func Fallback(ext string) (Signature, bool) {
	sig, ok := fallbackTypes[strings.ToLower(ext)]
	return sig, ok
}

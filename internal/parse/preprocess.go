package parse

import "regexp"

var (
	lineCommentRe  = regexp.MustCompile(`//[^\n]*`)
	blockCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)
	directiveRe    = regexp.MustCompile(`(?m)^[ \t]*#[^\n]*$`)
)

// Preprocess removes line comments, block comments and preprocessor
// directive lines, in that order.
func Preprocess(source string) string {
	s := lineCommentRe.ReplaceAllString(source, "")
	s = blockCommentRe.ReplaceAllString(s, "")
	return directiveRe.ReplaceAllString(s, "")
}

// Package prompt assembles chat-completion payloads from configured
// templates: a fixed system instruction plus a user message formed by
// concatenating a before fragment, the declaration source and an after
// fragment, with named placeholder tokens substituted.
package prompt

import (
	"regexp"
	"strings"

	"tsdocllm/pkg/config"
)

// Placeholder tokens recognized in the before/after template fragments.
// Unmatched tokens are left as-is.
const (
	TokenClassName    = "{className}"
	TokenMethodName   = "{methodName}"
	TokenTestFileName = "{testFileName}"
)

// Vars holds the substitution values for the placeholder tokens.
type Vars struct {
	ClassName    string
	MethodName   string
	TestFileName string
}

// Prompt is an assembled two-message exchange ready for the completion client.
type Prompt struct {
	System string
	User   string
}

// Build assembles a prompt from the template, the declaration body and the
// substitution variables. Output is deterministic for identical inputs.
func Build(t config.Template, body string, vars Vars) Prompt {
	return Prompt{
		System: t.System,
		User:   substitute(t.Before, vars) + body + substitute(t.After, vars),
	}
}

func substitute(fragment string, vars Vars) string {
	r := strings.NewReplacer(
		TokenClassName, vars.ClassName,
		TokenMethodName, vars.MethodName,
		TokenTestFileName, vars.TestFileName,
	)
	return r.Replace(fragment)
}

var (
	blockCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineCommentRe  = regexp.MustCompile(`//[^\n]*`)
)

// StripComments removes // line comments and /* */ block comments from
// source text using pattern matching, not a parser. Used for the
// test-generation body so the model sees uncommented class text.
func StripComments(source string) string {
	out := blockCommentRe.ReplaceAllString(source, "")
	out = lineCommentRe.ReplaceAllString(out, "")
	return out
}

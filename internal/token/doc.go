// Package token defines lexical token kinds of the PlayScript language.
// Invariants:
//   - Token.Text is a slice of the original source, except for string literals,
//     whose Text holds the decoded value.
//   - Token.Span always covers the raw source bytes of the token.
//   - Primitive type names (int, float, boolean, string) are keywords, class names are identifiers.
package token

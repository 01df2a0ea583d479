// Package javascript implements a highlighting mode for JavaScript-like
// languages.
//
// The mode pairs a small tokenizer with a continuation-stack parser. The
// parser holds an explicit stack of pending grammar rules; for every token it
// pops rules and applies them until one consumes the token. A rule may push
// further rules to wait for later tokens. Two side structures ride along in
// the state: a lexical stack of open blocks, brackets and statements that
// drives indentation, and a chain of scopes whose variable lists let the mode
// tell locally bound identifiers from free ones.
//
// Styles produced: keyword, atom, number, string, string-2 (regular
// expressions), comment, operator, variable, variable-2 (locally bound),
// def (declarations) and property.
//
// Setting the "json" option starts every document in expression context.
package javascript

// Package translate normalizes user input into English before it is handed to
// an English-only downstream model.
//
// Input without any CJK ideograph is returned untouched without contacting the
// model. Otherwise the text is wrapped in a translation instruction (one that
// keeps fenced code verbatim when the text contains any) and sent through the
// completion gateway. Normalize never fails: when no translation can be
// obtained the original text is returned.
package translate

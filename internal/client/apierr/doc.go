// Package apierr classifies failed REST calls into a closed set of kinds
// and renders them as Arabic messages for the operator.
//
// Classification happens once, at the HTTP boundary (FromResponse,
// Network). Everything above works with *Error and its Kind; Message is a
// pure function over that value.
package apierr

// Package api is the REST client of the secdesk back office.
//
// A Client owns the base URL, the HTTP transport and two hooks:
//
//   - a TokenSource consulted before every request; when it yields a
//     token the request carries "Authorization: Token <token>";
//   - a session-end handler invoked when a response is 401 or 403. The
//     handler runs at most once until ResetSession is called, however
//     many requests fail concurrently.
//
// Every non-2xx response and every transport failure is returned as an
// *apierr.Error, so callers classify failures with apierr.KindOf.
//
// Typed calls exist per resource (auth, correspondence, types, procedures,
// contacts, attachments). The flat resources (people, vehicles, permits,
// card permits, settings) share the Resource helper. Collections come back
// in the models.Page envelope; bare JSON arrays are accepted too.
package api

/*
Package errors implements the error model used by all revshare packages.

Every error returned by the ledger wraps one of the root errors declared in
this package. A root error carries a numeric code that stays stable across
releases, so that clients (the CLI, the HTTP API) can act on the kind of
failure without parsing messages.

Use ErrXyz.New or Wrap at the point where an error is created so that a
stack trace is attached. Test for a kind with ErrXyz.Is(err).

Once you have an error, use fmt to render it:

	%s is just the error message
	%+v is the message with the full stack trace
*/
package errors

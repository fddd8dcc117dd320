/*
Package distribution implements the revenue distribution ledger.

A distributor, created once, names the authority allowed to mutate the
ledger, the treasury paying out revenue and the account collecting the
platform fee. Collections are registered by the authority, each with a
revenue model deciding how an incoming payment is split between the
holders of the collection.

Every successful payment distribution transfers the platform fee and the
holder shares, increments the distributor and collection aggregates and
appends an immutable event to the distribution history.

Batch distributions pay explicit amounts to explicit accounts. They are not
tied to a collection and do not modify any aggregate.
*/
package distribution

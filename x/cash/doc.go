/*
Package cash implements the reference asset transfer service of the
ledger: a wallet per address holding a single balance.

Transfers are executed against the same store as the operation issuing
them, so they are committed or rolled back together with it.
*/
package cash

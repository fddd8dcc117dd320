/*
Package api exposes the committed ledger state over a read-only HTTP API.

	GET /health
	GET /distributor
	GET /collections
	GET /collections/{id}
	GET /collections/{id}/distributions
	GET /accounts/{address}/balance
	GET /metrics

All responses are JSON encoded. Errors are returned as

	{"errors": ["description"]}

Internal failures are redacted before leaving the server.
*/
package api

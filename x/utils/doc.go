/*
Package utils provides the decorators wrapped around every ledger
operation: panic recovery, logging, metrics and savepoints.
*/
package utils

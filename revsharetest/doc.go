/*
Package revsharetest provides mocks and helpers for testing extensions.
*/
package revsharetest

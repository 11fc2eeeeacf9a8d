/*
Package disbursetest provides mocks and helpers for testing code built on top
of the disburse framework.
*/
package disbursetest

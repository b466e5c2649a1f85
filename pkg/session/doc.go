/*
Package session persists simulation progress so a run can be stopped and resumed.

A Manager serializes access per session ID in process and, when a
DistributedLocker is configured, across processes sharing the same store.
*/
package session

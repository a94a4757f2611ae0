// Package state persists the run's liveness record and reads it back as a
// crash oracle.
//
// The record is a fixed-layout binary structure written by full overwrite to
// one well-known path, fsynced on every save. Its purpose is forensic: when
// the race this tool provokes actually fires, the host dies and the process
// never gets to mark itself stopped. On the next start,
// [Store.CheckPreviousRun] finds a record whose running flag is still set
// and reports the previous run's statistics as evidence.
//
// A clean stop saves a final record with the running flag cleared and then
// removes the file, so only an uncontrolled termination leaves the
// tell-tale behind.
package state

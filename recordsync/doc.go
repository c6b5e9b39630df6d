// Package recordsync keeps a form draft and the last fetched list of client
// records consistent with a remote document collection.
//
// A Controller exposes two asynchronous operations. Load re-fetches the whole
// collection and replaces the record list; Submit inserts the draft as a new
// document and refreshes the list on success. Both return a channel that
// receives a single Result, so callers may either wait for the outcome or
// ignore it. Loads are sequenced: with the default LatestIssued ordering a
// response older than the snapshot already applied is discarded.
package recordsync

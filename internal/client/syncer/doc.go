// Package syncer keeps the local task store and the remote task store
// eventually consistent.
//
// Every write lands in the local store first and is the only thing that can
// fail the call. When the client is online the same change is sent to the
// server; on success the local record is flagged synced, on failure it stays
// pending and is pushed again by SyncPending.
//
// Reads import remote-only records (insert only, local fields always win) and
// return the local view for one owner.
package syncer

// Package actionlog persists a best-effort audit trail of user actions in
// SQLite.
//
// The voting engine records one row per accepted command (gong, vote,
// flush vote, ban) so operators can answer "who kept gonging everything"
// after the fact. Writes are best effort; callers swallow failures and the
// log never participates in vote correctness.
package actionlog

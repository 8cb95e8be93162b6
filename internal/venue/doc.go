// Package venue holds the fixed table of JRA racecourses.
//
// Each venue has a display name (as printed on race cards, e.g. "京都") and
// the two-digit code the JRA site embeds in its document identifiers. The
// table is read-only; callers get copies, never the backing slice.
package venue

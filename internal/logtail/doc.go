// Package logtail reads the tail of the assetlist log for the in-app log view.
//
// # Reading
//
// Read returns the last maxLines lines of a file in one sequential pass using
// a ring buffer of maxLines entries, so memory stays O(maxLines) regardless of
// the file size:
//
//	lines, err := logtail.Read(cfg.LogPath(), 400, logtail.Session(session.ID))
//
// The optional keep filter runs before lines enter the ring, so a filtered
// read still returns up to maxLines matching lines. Session keeps the lines
// written by one browsing session, identified by its session=<uuid> attribute.
// A missing file is not an error; it simply has no lines yet.
//
// # Parsing
//
// The log is written by slog's text handler: space separated key=value pairs
// with quoted values where needed. Parse turns one line into a Record with the
// time, level and message split out and every other attribute kept in order.
// Anything that is not a well-formed record (a panic trace, a stray write) is
// returned whole as the message so the view never drops text.
package logtail

// Package probe asks ffprobe for the duration of a media file.
//
// Only the container duration is requested; nothing else about the media is
// inspected. Every failure is reported as an *Error so callers can tell a
// probe failure apart from other errors with errors.Is(err, ErrProbe).
package probe

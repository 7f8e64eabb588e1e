// Package storage decides where downloaded emotes go and writes them there.
//
// File names are the lower-cased emote name plus an extension taken from the
// response content type (image/png and image/gif are recognised). Writes go
// to a temporary file in the same directory and are renamed into place, so a
// failed download never leaves a truncated emote behind.
package storage

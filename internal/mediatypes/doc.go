// Package mediatypes provides the extension allow-lists shared by the
// project locator, the audio scanner and the archiver.
//
// This package is dependency-free so any other package can import it without
// creating import cycles.
//
// # Project files
//
// Project files come in two variants, both matched case-insensitively:
//
//	mediatypes.IsProjectFile("Song.RPP")      // true
//	mediatypes.IsProjectFile("Song.rpp-bak")  // true
//
// # Media files
//
// Only the explicit allow-list is scanned for archiving: uncompressed audio
// (wav, aif, aiff), compressed audio (mp3, ogg, flac) and MIDI (mid).
//
//	if mediatypes.IsMediaFile(name) {
//	    // classify against the usage index
//	}
//
// # Sorting
//
// SortField and SortOrder are shared by the project and candidate listings.
package mediatypes

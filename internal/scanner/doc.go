// Package scanner walks project directories for audio and MIDI files and
// classifies each one against a sealed usage index:
//
//  1. its canonical path is a specific reference: used
//  2. its filename matches an unresolved reference: possibly used
//  3. otherwise: unused, reported as an AudioCandidate
//
// Only unused files become candidates. The archive root is never scanned.
package scanner

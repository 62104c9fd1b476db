package mediatypes

import (
	"path/filepath"
	"strings"
)

// FileType represents the type of a file found under a project root.
type FileType string

const (
	// FileTypeProject represents a primary project file (.rpp).
	FileTypeProject FileType = "project"
	// FileTypeProjectBackup represents a backup project file (.rpp-bak).
	FileTypeProjectBackup FileType = "project-backup"
	// FileTypeAudio represents an audio file.
	FileTypeAudio FileType = "audio"
	// FileTypeMIDI represents a MIDI file.
	FileTypeMIDI FileType = "midi"
	// FileTypeOther represents an unknown or unsupported file type.
	FileTypeOther FileType = "other"
)

// SortField specifies which field to sort by.
type SortField string

// SortOrder specifies the direction of sorting.
type SortOrder string

const (
	// SortByName sorts results by filename.
	SortByName SortField = "name"
	// SortByDate sorts results by modification time.
	SortByDate SortField = "date"
	// SortBySize sorts results by file size.
	SortBySize SortField = "size"

	// SortAsc sorts in ascending order.
	SortAsc SortOrder = "asc"
	// SortDesc sorts in descending order.
	SortDesc SortOrder = "desc"
)

// ProjectExtensions maps project file extensions to their variant.
var ProjectExtensions = map[string]FileType{
	".rpp":     FileTypeProject,
	".rpp-bak": FileTypeProjectBackup,
}

// AudioExtensions maps file extensions to whether they are scanned audio formats.
var AudioExtensions = map[string]bool{
	".wav":  true,
	".aif":  true,
	".aiff": true,
	".mp3":  true,
	".ogg":  true,
	".flac": true,
}

// MIDIExtensions maps file extensions to whether they are scanned MIDI formats.
var MIDIExtensions = map[string]bool{
	".mid": true,
}

// Ext returns the lower-cased extension of name including the leading dot.
// ".rpp-bak" is returned as a single extension.
func Ext(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

// GetFileType returns the FileType for a given file extension.
// The extension should be lowercase and include the leading dot (e.g., ".wav").
// Returns FileTypeOther if the extension is not recognized.
func GetFileType(ext string) FileType {
	if t, ok := ProjectExtensions[ext]; ok {
		return t
	}
	if AudioExtensions[ext] {
		return FileTypeAudio
	}
	if MIDIExtensions[ext] {
		return FileTypeMIDI
	}
	return FileTypeOther
}

// IsProjectFile reports whether name is a primary or backup project file.
func IsProjectFile(name string) bool {
	_, ok := ProjectExtensions[Ext(name)]
	return ok
}

// IsBackupProject reports whether name is a backup project file.
func IsBackupProject(name string) bool {
	return ProjectExtensions[Ext(name)] == FileTypeProjectBackup
}

// IsMediaFile reports whether name is on the audio/MIDI allow-list.
func IsMediaFile(name string) bool {
	switch GetFileType(Ext(name)) {
	case FileTypeAudio, FileTypeMIDI:
		return true
	default:
		return false
	}
}

// ProjectBaseName strips the project extension from a project file name:
// "Song A.rpp" and "Song A.rpp-bak" both become "Song A".
func ProjectBaseName(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Package models holds the value records passed between the cleaning
// phases: project records, resolved usages, audio candidates and archive
// outcomes, plus the shared error taxonomy.
//
// Records are plain values. Selection state lives in the Included fields
// and is changed only through the cleaner.Session setters.
package models

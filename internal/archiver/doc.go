// Package archiver relocates unused media into a reserved directory under
// the scanned root, one subdirectory per origin project.
//
// Files are moved with a rename, never copied. A move across filesystems
// fails for that item with a filesystem.CrossDeviceError. Name collisions
// follow the configured Collision policy; an existing archived file is never
// overwritten.
package archiver

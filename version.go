package filemagic

// Version identifies this build of the library and CLI.
const Version = "filemagic-0.1.0"

// MagicVersion is the magic-syntax compatibility level this parser targets.
const MagicVersion = "5.45-compatible"

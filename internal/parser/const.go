package parser

// Historical constants from the compiled .mgc magic database header. This
// package only reads textual magic source; these are kept as documentation
// of the format this DSL descends from, not used by any decoder here.
const (
	magicNo     = 0xF11E041C
	versionNo   = 20
)

// DefaultMagicPaths lists the magic source files loaded when no explicit
// path is given, in search order.
var DefaultMagicPaths = []string{
	"/etc/magic",
	"/usr/share/misc/magic",
	"/usr/share/file/magic",
}

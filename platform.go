package guard

import "runtime"

// Platform selects which operation-syntax tables and path conventions
// the engine uses. It is chosen once at engine construction; the
// per-command hot path never branches on the runtime OS.
type Platform int

const (
	Posix Platform = iota
	Windows
)

// CurrentPlatform returns the platform for the running process.
func CurrentPlatform() Platform {
	if runtime.GOOS == "windows" {
		return Windows
	}
	return Posix
}

// String returns "posix" or "windows", the names used as platform
// overlay keys in rule files.
func (p Platform) String() string {
	if p == Windows {
		return "windows"
	}
	return "posix"
}

// ParsePlatform maps a platform name back to its enum value. Unknown
// names fall back to the current platform.
func ParsePlatform(name string) Platform {
	switch name {
	case "windows":
		return Windows
	case "posix":
		return Posix
	default:
		return CurrentPlatform()
	}
}

package filesystem

import (
	"strings"
)

// Path is the current working directory of a session as a list of directory names,
// the empty Path is the root.
type Path []string

// ParsePath splits an absolute virtual path like "/docs/2024" into a Path.
func ParsePath(p string) Path {
	var result Path
	return result.Join(p)
}

// Clone returns an independent copy of p.
func (p Path) Clone() Path {
	if p == nil {
		return Path{}
	}
	return append(make(Path, 0, len(p)), p...)
}

// IsRoot reports whether p is the root directory.
func (p Path) IsRoot() bool {
	return len(p) == 0
}

// Parent returns the parent directory, the parent of the root is the root.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return Path{}
	}
	return p.Clone()[:len(p)-1]
}

// String returns the canonical form of the directory, "/" or "/a/b/" with a trailing slash
// so a file name can be appended to it directly.
func (p Path) String() string {
	if len(p) == 0 {
		return "/"
	}
	return "/" + strings.Join(p, "/") + "/"
}

// Dir returns the directory without the trailing slash, as PWD prints it.
func (p Path) Dir() string {
	if len(p) == 0 {
		return "/"
	}
	return "/" + strings.Join(p, "/")
}

// Join resolves pathText against p and returns the resulting directory path.
// p itself is never modified.
func (p Path) Join(pathText string) Path {
	var result Path
	if strings.HasPrefix(pathText, "/") {
		result = Path{}
	} else {
		result = p.Clone()
	}
	for _, segment := range strings.Split(pathText, "/") {
		switch segment {
		case "", ".":
		case "..":
			if len(result) > 0 {
				result = result[:len(result)-1]
			}
		default:
			result = append(result, segment)
		}
	}
	return result
}

// Resolve splits pathText, taken relative to p, into the directory that holds the
// target and the target name. ok is false when the path is empty or names the root.
func (p Path) Resolve(pathText string) (dir Path, name string, ok bool) {
	if pathText == "" {
		return Path{}, "", false
	}
	full := p.Join(pathText)
	if len(full) == 0 {
		return Path{}, "", false
	}
	return full[:len(full)-1], full[len(full)-1], true
}

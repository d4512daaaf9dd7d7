package params

import "fmt"

// Kind is the declared type tag of a parameter.
type Kind int

const (
	KindFile Kind = iota
	KindDir
	KindString
	KindOptionalString
	KindOptionalInt
	KindOptionalFloat
	KindOptionalBool
	KindOptionalFile
)

var kindNames = map[Kind]string{
	KindFile:           "file",
	KindDir:            "dir",
	KindString:         "string",
	KindOptionalString: "optional-string",
	KindOptionalInt:    "optional-int",
	KindOptionalFloat:  "optional-float",
	KindOptionalBool:   "optional-bool",
	KindOptionalFile:   "optional-file",
}

// String returns the manifest name of the kind.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText renders the kind by name in YAML/JSON documents.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Optional reports whether a value of this kind may be absent.
func (k Kind) Optional() bool {
	switch k {
	case KindOptionalString, KindOptionalInt, KindOptionalFloat, KindOptionalBool, KindOptionalFile:
		return true
	}
	return false
}

// IsPath reports whether values of this kind are file or directory paths.
func (k Kind) IsPath() bool {
	switch k {
	case KindFile, KindDir, KindOptionalFile:
		return true
	}
	return false
}

// base is the scalar representation shared by a required kind and its optional form.
type base int

const (
	baseNone base = iota
	baseString
	baseInt
	baseFloat
	baseBool
	basePath
)

func (k Kind) base() base {
	switch k {
	case KindFile, KindDir, KindOptionalFile:
		return basePath
	case KindString, KindOptionalString:
		return baseString
	case KindOptionalInt:
		return baseInt
	case KindOptionalFloat:
		return baseFloat
	case KindOptionalBool:
		return baseBool
	}
	return baseNone
}

func (b base) String() string {
	switch b {
	case baseString:
		return "string"
	case baseInt:
		return "int"
	case baseFloat:
		return "float"
	case baseBool:
		return "bool"
	case basePath:
		return "path"
	}
	return "none"
}

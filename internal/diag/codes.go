package diag

import "fmt"

// Code identifies a kind of diagnostic. The thousands digit picks the
// family: 4 for I/O, 5 for lowering, 6 for the project configuration.
type Code uint16

const (
	UnknownCode Code = 0

	IOLoadFileError Code = 4001
	IODecodePack    Code = 4002

	LowInvalidABI              Code = 5001
	LowOptionalBoundNotOnParam Code = 5002
	LowImplTraitNotAllowed     Code = 5003
	LowAnonLifetimeNotAllowed  Code = 5004
	LowMissingABI              Code = 5005

	ProjConfigInvalid Code = 6001
)

var families = map[Code]string{4: "IO", 5: "LOW", 6: "PRJ"}

var titles = map[Code]string{
	IOLoadFileError:            "Failed to load file",
	IODecodePack:               "Failed to decode pack",
	LowInvalidABI:              "Invalid ABI",
	LowOptionalBoundNotOnParam: "Optional bound outside of a type parameter declaration",
	LowImplTraitNotAllowed:     "`impl Trait` not allowed here",
	LowAnonLifetimeNotAllowed:  "`'_` cannot be used here",
	LowMissingABI:              "Missing explicit ABI",
	ProjConfigInvalid:          "Invalid project configuration",
}

// ID returns the stable textual identifier, e.g. "LOW5001".
func (c Code) ID() string {
	if prefix, ok := families[c/1000]; ok {
		return fmt.Sprintf("%s%04d", prefix, uint16(c))
	}
	return "E0000"
}

// Title is a short description of the code shared by all its diagnostics.
func (c Code) Title() string {
	if t, ok := titles[c]; ok {
		return t
	}
	return "Unknown error"
}

func (c Code) String() string { return c.ID() }

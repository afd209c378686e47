package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Manifest (описание программы)
	ManifestInfo              Code = 1000
	ManifestParse             Code = 1001
	ManifestDuplicateKey      Code = 1002
	ManifestUnknownKind       Code = 1003
	ManifestMissingContaining Code = 1004
	ManifestEmptyKey          Code = 1005

	// Семантические
	SemaInfo                Code = 3000
	SemaUnresolvedReference Code = 3001
	SemaDependencyCycle     Code = 3002
	SemaBadOverride         Code = 3003
	SemaBadContainingType   Code = 3004
	SemaNotInterface        Code = 3005

	// I/O
	IOLoadFileError Code = 4001

	// Internal compiler errors: a binder ordering bug, never a user mistake.
	ICEContract Code = 9001
)

var codeTitles = map[Code]string{
	UnknownCode:               "Unknown error",
	ManifestInfo:              "Manifest information",
	ManifestParse:             "Malformed manifest",
	ManifestDuplicateKey:      "Duplicate symbol key",
	ManifestUnknownKind:       "Unknown symbol kind",
	ManifestMissingContaining: "Containing type is not declared",
	ManifestEmptyKey:          "Symbol key is empty",
	SemaInfo:                  "Semantic information",
	SemaUnresolvedReference:   "Unresolved symbol reference",
	SemaDependencyCycle:       "Dependency cycle",
	SemaBadOverride:           "Invalid override target",
	SemaBadContainingType:     "Containing entity is not a type",
	SemaNotInterface:          "Implemented type is not an interface",
	IOLoadFileError:           "I/O load file error",
	ICEContract:               "Internal compiler error",
}

// ID returns the stable textual identifier, e.g. "SEM3001".
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("MAN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 9000 && ic < 10000:
		return fmt.Sprintf("ICE%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	if title, ok := codeTitles[c]; ok {
		return title
	}
	return codeTitles[UnknownCode]
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

package domain

// SourceKind discriminates the two supported remote origins.
type SourceKind int

const (
	SourceGenericURL SourceKind = iota
	SourceDriveFile
)

// Source is a tagged union: either an arbitrary HTTP(S) URL or a
// Google Drive file identifier extracted from a share link.
type Source struct {
	Kind  SourceKind
	Value string `validate:"required,max=2048"`
}

func GenericURL(url string) Source {
	return Source{Kind: SourceGenericURL, Value: url}
}

func DriveFileID(id string) Source {
	return Source{Kind: SourceDriveFile, Value: id}
}

func (s Source) String() string {
	switch s.Kind {
	case SourceDriveFile:
		return "drive:" + s.Value
	default:
		return s.Value
	}
}

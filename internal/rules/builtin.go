package rules

// Built-in taxonomy. Each key can be individually disabled; a disabled
// key makes its extensions fall through to pass-through.
const (
	BuiltinDocuments     = "documents"
	BuiltinImages        = "images"
	BuiltinVideo         = "video"
	BuiltinAudio         = "audio"
	BuiltinCompressed    = "compressed"
	BuiltinSpreadsheets  = "spreadsheets"
	BuiltinPresentations = "presentations"
	BuiltinPrograms      = "programs"
	BuiltinText          = "text"
	BuiltinPDF           = "pdf"
)

// BuiltinOrder is the stable listing order for CLI output.
var BuiltinOrder = []string{
	BuiltinDocuments,
	BuiltinImages,
	BuiltinVideo,
	BuiltinAudio,
	BuiltinCompressed,
	BuiltinSpreadsheets,
	BuiltinPresentations,
	BuiltinPrograms,
	BuiltinText,
	BuiltinPDF,
}

// builtinFolders maps taxonomy keys to destination folder names.
var builtinFolders = map[string]string{
	BuiltinDocuments:     "Documents",
	BuiltinImages:        "Images",
	BuiltinVideo:         "Videos",
	BuiltinAudio:         "Audio",
	BuiltinCompressed:    "Compressed",
	BuiltinSpreadsheets:  "Spreadsheets",
	BuiltinPresentations: "Presentations",
	BuiltinPrograms:      "Programs",
	BuiltinText:          "Text",
	BuiltinPDF:           "PDFs",
}

// builtinExtensions maps extensions to taxonomy keys.
var builtinExtensions = map[string]string{
	"doc": BuiltinDocuments, "docx": BuiltinDocuments,
	"odt": BuiltinDocuments, "rtf": BuiltinDocuments,

	"pdf": BuiltinPDF,

	"jpg": BuiltinImages, "jpeg": BuiltinImages, "png": BuiltinImages,
	"gif": BuiltinImages, "webp": BuiltinImages, "svg": BuiltinImages,
	"bmp": BuiltinImages,

	"mp4": BuiltinVideo, "mkv": BuiltinVideo, "avi": BuiltinVideo,
	"webm": BuiltinVideo, "mov": BuiltinVideo,

	"mp3": BuiltinAudio, "wav": BuiltinAudio, "ogg": BuiltinAudio,
	"flac": BuiltinAudio, "m4a": BuiltinAudio,

	"zip": BuiltinCompressed, "rar": BuiltinCompressed, "7z": BuiltinCompressed,
	"tar": BuiltinCompressed, "gz": BuiltinCompressed,

	"csv": BuiltinSpreadsheets, "xls": BuiltinSpreadsheets,
	"xlsx": BuiltinSpreadsheets, "ods": BuiltinSpreadsheets,

	"ppt": BuiltinPresentations, "pptx": BuiltinPresentations,
	"odp": BuiltinPresentations,

	"exe": BuiltinPrograms, "msi": BuiltinPrograms, "deb": BuiltinPrograms,
	"rpm": BuiltinPrograms, "appimage": BuiltinPrograms, "dmg": BuiltinPrograms,

	"txt": BuiltinText, "md": BuiltinText, "log": BuiltinText,
}

// BuiltinFolderName returns the destination folder for a taxonomy key.
func BuiltinFolderName(key string) string { return builtinFolders[key] }

// BuiltinFolder resolves an extension through the built-in taxonomy,
// honoring per-category toggles. A key absent from enabled counts as
// enabled. Returns ok=false for unknown extensions and for extensions
// whose category is disabled.
func BuiltinFolder(ext string, enabled map[string]bool) (string, bool) {
	key, ok := builtinExtensions[ext]
	if !ok {
		return "", false
	}
	if on, present := enabled[key]; present && !on {
		return "", false
	}
	return builtinFolders[key], true
}

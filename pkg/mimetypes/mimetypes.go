// Package mimetypes maps file extensions to MIME types.
package mimetypes

import (
	"mime"
	"strings"
)

// Resolver looks up the MIME type for a file extension.
//
// ext is given without the leading dot and is already lower-cased.
// Implementations return "" when they have no match.
type Resolver interface {
	TypeForExtension(ext string) string
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ext string) string

func (f ResolverFunc) TypeForExtension(ext string) string {
	return f(ext)
}

// builtin covers the common types so results do not depend on the host's
// mime.types files.
var builtin = map[string]string{
	"txt":  "text/plain",
	"text": "text/plain",
	"log":  "text/plain",
	"md":   "text/markdown",
	"csv":  "text/csv",
	"htm":  "text/html",
	"html": "text/html",
	"css":  "text/css",
	"xml":  "text/xml",
	"js":   "application/javascript",
	"json": "application/json",
	"yaml": "application/yaml",
	"yml":  "application/yaml",
	"toml": "application/toml",
	"pdf":  "application/pdf",
	"rtf":  "application/rtf",
	"zip":  "application/zip",
	"gz":   "application/gzip",
	"tgz":  "application/gzip",
	"tar":  "application/x-tar",
	"7z":   "application/x-7z-compressed",
	"rar":  "application/vnd.rar",
	"apk":  "application/vnd.android.package-archive",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"xls":  "application/vnd.ms-excel",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"ppt":  "application/vnd.ms-powerpoint",
	"pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	"odt":  "application/vnd.oasis.opendocument.text",
	"epub": "application/epub+zip",
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"webp": "image/webp",
	"svg":  "image/svg+xml",
	"ico":  "image/x-icon",
	"heic": "image/heic",
	"mp3":  "audio/mpeg",
	"ogg":  "audio/ogg",
	"flac": "audio/flac",
	"wav":  "audio/x-wav",
	"m4a":  "audio/mp4",
	"mp4":  "video/mp4",
	"mkv":  "video/x-matroska",
	"webm": "video/webm",
	"avi":  "video/avi",
	"mov":  "video/quicktime",
	"3gp":  "video/3gpp",
}

// Default resolves from the built-in table, then the platform registry.
var Default Resolver = ResolverFunc(lookup)

func lookup(ext string) string {
	if t, ok := builtin[ext]; ok {
		return t
	}

	t := mime.TypeByExtension("." + ext)
	if t == "" {
		return ""
	}

	// Drop parameters such as "; charset=utf-8"
	mediaType, _, err := mime.ParseMediaType(t)
	if err != nil {
		return ""
	}
	return mediaType
}

// Extension returns the lower-cased extension of name without the dot, or
// "" if name has none. A leading dot alone (".profile") counts as one.
func Extension(name string) string {
	idx := strings.LastIndexByte(name, '.')
	if idx == -1 || idx == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[idx+1:])
}

// ForName resolves the MIME type for a file name using r, returning "" when
// the name has no extension or r has no match.
func ForName(r Resolver, name string) string {
	ext := Extension(name)
	if ext == "" {
		return ""
	}
	return r.TypeForExtension(ext)
}

package core

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// CSVExtension is the only extension accepted for uploads.
const CSVExtension = ".csv"

// fallbackFilename is used when sanitising leaves nothing behind.
const fallbackFilename = "upload.csv"

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// HasCSVExtension reports whether name ends in .csv, ignoring case.
// This is a naming policy, not content sniffing.
func HasCSVExtension(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), CSVExtension)
}

// SecureFilename returns a version of name safe to embed in a storage path.
// Accents are decomposed and non-ASCII dropped, "/" and runs of whitespace
// become "_", anything outside [A-Za-z0-9_.-] is removed, and leading or
// trailing dots and underscores are trimmed so "../" cannot survive.
// A backslash is not a separator here and is dropped like any other
// unsafe character: `a\b.csv` becomes "ab.csv".
func SecureFilename(name string) string {
	name = norm.NFKD.String(name)

	ascii := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		if name[i] < 0x80 {
			ascii = append(ascii, name[i])
		}
	}
	name = string(ascii)

	name = strings.ReplaceAll(name, "/", " ")
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	name = strings.Trim(name, "._")

	if name == "" {
		return fallbackFilename
	}
	return name
}

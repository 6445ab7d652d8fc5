package assistant

import (
	"path/filepath"

	"github.com/go-enry/go-enry/v2"
)

// DetectLanguage identifies the programming language of a source file from
// its name and content. Returns "Unknown" when detection fails.
func DetectLanguage(fileName string, source []byte) string {
	lang := enry.GetLanguage(filepath.Base(fileName), source)

	if lang == enry.OtherLanguage {
		if byExt, safe := enry.GetLanguageByExtension(fileName); safe {
			lang = byExt
		}
	}

	if lang == enry.OtherLanguage {
		if byName, safe := enry.GetLanguageByFilename(filepath.Base(fileName)); safe {
			lang = byName
		}
	}

	if lang == enry.OtherLanguage {
		return "Unknown"
	}

	return lang
}

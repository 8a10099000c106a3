// Package quiz implements the question and session core.
package quiz

import "github.com/mwzhao/hskdrill/internal/model"

// ConcreteModes lists the modes Mixed can resolve to.
var ConcreteModes = []model.Mode{
	model.ModeChineseToEnglish,
	model.ModeEnglishToChinese,
	model.ModePinyinToChinese,
	model.ModeChineseToPinyin,
}

// Prompt returns the question text shown for entry in the given mode.
func Prompt(entry model.Entry, mode model.Mode) string {
	switch mode {
	case model.ModeEnglishToChinese:
		return entry.English
	case model.ModePinyinToChinese:
		return entry.Pinyin
	case model.ModeChineseToEnglish, model.ModeChineseToPinyin:
		return entry.Chinese
	default:
		return entry.Chinese
	}
}

// Answer returns the correct answer for entry in the given mode.
func Answer(entry model.Entry, mode model.Mode) string {
	switch mode {
	case model.ModeEnglishToChinese, model.ModePinyinToChinese:
		return entry.Chinese
	case model.ModeChineseToPinyin:
		return entry.Pinyin
	default:
		return entry.English
	}
}

// PromptIsChinese reports whether the prompt for mode is the Chinese field,
// i.e. whether a pinyin hint is meaningful.
func PromptIsChinese(mode model.Mode) bool {
	return mode == model.ModeChineseToEnglish || mode == model.ModeChineseToPinyin
}

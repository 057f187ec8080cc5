package viewset

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	slugStrip  = regexp.MustCompile(`[^\w\s-]`)
	slugSpaces = regexp.MustCompile(`[-\s]+`)
)

// TitleCase 每个单词首字母大写、其余小写，如 "json stream models" -> "Json Stream Models"
func TitleCase(s string) string {
	return cases.Title(language.Und).String(s)
}

// CapFirst 仅首字母大写
func CapFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Slugify 转为小写、空白转连字符并去掉非单词字符
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugStrip.ReplaceAllString(s, "")
	return strings.Trim(slugSpaces.ReplaceAllString(s, "-"), "-_")
}

// HumanizeField 字段名转显示标签，如 release_date -> Release date
func HumanizeField(name string) string {
	return CapFirst(strings.ReplaceAll(strings.TrimPrefix(name, "_"), "_", " "))
}

package speaker

import (
	"strings"

	"stenograf/internal/textutil"
)

// titleAbbreviations lists the academic and professional titles that appear
// in biography page headings, most specific first so that e.g. "JUDr." is
// consumed before "Dr.".
var titleAbbreviations = []string{
	"PaedDr.", "ThMgr.", "MUDr.", "MVDr.", "MVDR.", "RSDr.", "RSDR.",
	"RNDr.", "PhDr.", "JUDr.", "ThDr.", "DrSc.", "Ph.D.", "PhD.",
	"Prof.", "prof.", "arch.", "Ing.", "Mgr.", "MgA.", "CSc.",
	"Doc.", "doc.", "MBA", "Bc.", "Dr.",
}

// femaleRoles and maleRoles are the gendered role nouns used to infer sex
// from a speaker's function text. Female forms are checked first because
// several share a prefix with the male form.
var (
	femaleRoles = []string{
		"Poslankyně", "Ministryně", "Členka", "Senátorka", "Místopředsedkyně",
		"poslankyně", "ministryně", "členka", "senátorka", "místopředsedkyně",
	}
	maleRoles = []string{
		"Poslanec", "Ministr", "Místopředseda", "Předseda", "Senátor",
		"poslanec", "ministr", "místopředseda", "předseda", "senátor",
	}
)

// SplitTitles separates academic titles from a biography page heading.
// Commas are dropped, each recognized abbreviation is removed from the name
// and appended to the titles string in the table's scan order.
func SplitTitles(pageName string) (name, titles string) {
	name = strings.TrimSpace(strings.ReplaceAll(pageName, ",", ""))
	var found []string
	for _, title := range titleAbbreviations {
		if strings.Contains(name, title) {
			found = append(found, title)
			name = textutil.FilterText(strings.ReplaceAll(name, title, " "))
		}
	}
	return strings.TrimSpace(name), strings.Join(found, " ")
}

// InferSex tests the function text against the gendered role nouns.
// Returns "Woman", "Man", or "" when no role noun matches.
func InferSex(function string) string {
	for _, role := range femaleRoles {
		if strings.Contains(function, role) {
			return "Woman"
		}
	}
	for _, role := range maleRoles {
		if strings.Contains(function, role) {
			return "Man"
		}
	}
	return ""
}

// FunctionText derives the role portion of a steno label by removing the
// resolved bare name from it.
func FunctionText(stenoName, name string) string {
	if name == "" {
		return strings.TrimSpace(stenoName)
	}
	return strings.TrimSpace(strings.Replace(stenoName, name, "", 1))
}

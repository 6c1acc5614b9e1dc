package purescript

import (
	"strings"
	"unicode/utf8"

	"github.com/huandu/xstrings"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var separator = strings.NewReplacer("-", "_", " ", "_", ".", "_")

// upper returns a fresh caser; casers keep state and cannot be shared
// between goroutines.
func upper() cases.Caser {
	return cases.Upper(language.Und)
}

// ProperName converts a GraphQL, SQL or package name to a PureScript proper
// name: users_bool_exp becomes UsersBoolExp, oa-gql-enums becomes OaGqlEnums.
// Names already in proper form are returned unchanged, so OrderStatusEnum
// and ID keep their capitals.
func ProperName(s string) string {
	var b strings.Builder
	for _, segment := range strings.Split(separator.Replace(s), "_") {
		b.WriteString(FirstUpper(segment))
	}
	return b.String()
}

// Kebab converts a name to kebab case, e.g. OrgAdmin becomes org-admin.
func Kebab(s string) string {
	return strings.ReplaceAll(xstrings.ToSnakeCase(separator.Replace(s)), "_", "-")
}

// ScreamingSnake converts a database label to an upper snake case
// constructor, e.g. weeklyOnline becomes WEEKLY_ONLINE.
func ScreamingSnake(s string) string {
	return upper().String(xstrings.ToSnakeCase(separator.Replace(s)))
}

// FirstUpper upper-cases the first rune of s and keeps the rest.
func FirstUpper(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return upper().String(string(r)) + s[size:]
}

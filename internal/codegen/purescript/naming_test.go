package purescript

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProperName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"users", "Users"},
		{"users_bool_exp", "UsersBoolExp"},
		{"query_root", "QueryRoot"},
		{"oa-gql-enums", "OaGqlEnums"},
		{"ID", "ID"},
		{"Int", "Int"},
		{"OrderStatusEnum", "OrderStatusEnum"},
		{"UserProfile", "UserProfile"},
		{"DateTime", "DateTime"},
		{"HTTPMethod", "HTTPMethod"},
		{"insert_UserProfile_one", "InsertUserProfileOne"},
		{"__leading", "Leading"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ProperName(tt.in))
		})
	}
}

func TestKebab(t *testing.T) {
	assert.Equal(t, "admin", Kebab("admin"))
	assert.Equal(t, "org-admin", Kebab("OrgAdmin"))
	assert.Equal(t, "org-admin", Kebab("org_admin"))
}

func TestScreamingSnake(t *testing.T) {
	assert.Equal(t, "DAILY", ScreamingSnake("daily"))
	assert.Equal(t, "WEEKLY_ONLINE", ScreamingSnake("weeklyOnline"))
	assert.Equal(t, "ON_HOLD", ScreamingSnake("on_hold"))
}

func TestFirstUpper(t *testing.T) {
	assert.Equal(t, "ACTIVE", FirstUpper("ACTIVE"))
	assert.Equal(t, "On_hold", FirstUpper("on_hold"))
	assert.Equal(t, "ÉTé", FirstUpper("éTé"))
	assert.Equal(t, "", FirstUpper(""))
}

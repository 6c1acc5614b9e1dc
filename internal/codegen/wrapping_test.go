package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	ps "github.com/okra-platform/gqlpurs/internal/codegen/purescript"
	"github.com/okra-platform/gqlpurs/internal/schema"
)

var (
	list    = schema.List
	nonNull = schema.NonNull
)

func TestWrapReturn(t *testing.T) {
	tests := []struct {
		name     string
		wrapping []schema.Modifier
		want     string
	}{
		{"nullable", nil, "Maybe T"},
		{"non-null", []schema.Modifier{nonNull}, "T"},
		{"nullable list of nullable", []schema.Modifier{list}, "Maybe (Array (Maybe T))"},
		{"non-null list of nullable", []schema.Modifier{list, nonNull}, "Array (Maybe T)"},
		{"nullable list of non-null", []schema.Modifier{nonNull, list}, "Maybe (Array T)"},
		{"non-null list of non-null", []schema.Modifier{nonNull, list, nonNull}, "Array T"},
		{"nested lists", []schema.Modifier{nonNull, list, nonNull, list, nonNull}, "Array (Array T)"},
		{"nested nullable lists", []schema.Modifier{list, list}, "Maybe (Array (Maybe (Array (Maybe T))))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, imports := WrapReturn(ps.Type("T"), tt.wrapping)
			assert.Equal(t, tt.want, ps.Print(got))

			// Test: Maybe is imported exactly when it is used
			if strings.Contains(tt.want, "Maybe") {
				assert.Equal(t, []ps.Import{importMaybe}, imports)
			} else {
				assert.Empty(t, imports)
			}
		})
	}
}

func TestWrapArgument(t *testing.T) {
	tests := []struct {
		name     string
		wrapping []schema.Modifier
		want     string
		imports  []ps.Import
	}{
		{"bare", nil, "T", nil},
		{"non-null", []schema.Modifier{nonNull}, "NotNull T", []ps.Import{importNotNull}},
		{"list", []schema.Modifier{list}, "Array T", nil},
		{"non-null list of non-null", []schema.Modifier{nonNull, list, nonNull}, "NotNull (Array (NotNull T))", []ps.Import{importNotNull}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, imports := WrapArgument(ps.Type("T"), tt.wrapping)
			assert.Equal(t, tt.want, ps.Print(got))
			assert.Equal(t, tt.imports, imports)
		})
	}
}

func TestWrapReturn_KeepsBase(t *testing.T) {
	base := ps.Type("AsGql", ps.Symbol("ID"), ps.Type("ID"))

	got, _ := WrapReturn(base, []schema.Modifier{nonNull})
	assert.Equal(t, `AsGql "ID" ID`, ps.Print(got))

	got, _ = WrapReturn(base, nil)
	assert.Equal(t, `Maybe (AsGql "ID" ID)`, ps.Print(got))
}

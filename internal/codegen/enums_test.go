package codegen

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ps "github.com/okra-platform/gqlpurs/internal/codegen/purescript"
	"github.com/okra-platform/gqlpurs/internal/schema"
)

func enumType(name string, values ...string) schema.Type {
	t := schema.Type{Kind: schema.KindEnum, Name: name}
	for _, v := range values {
		t.EnumValues = append(t.EnumValues, schema.EnumValue{Name: v})
	}
	return t
}

func TestIsShared(t *testing.T) {
	suffixes := []string{"Enum", "StatusType"}

	assert.True(t, IsShared("OrderStatusEnum", suffixes))
	assert.True(t, IsShared("PaymentStatusType", suffixes))
	assert.False(t, IsShared("Status", suffixes))
	assert.False(t, IsShared("EnumKind", suffixes))
	assert.False(t, IsShared("Status", []string{""}))
	assert.False(t, IsShared("OrderStatusEnum", nil))
}

func TestEnumValues(t *testing.T) {
	tests := []struct {
		name      string
		enum      schema.Type
		values    []string
		originals []string
	}{
		{
			name:      "values keep their original",
			enum:      enumType("status", "active", "inReview"),
			values:    []string{"Active", "InReview"},
			originals: []string{"active", "inReview"},
		},
		{
			name:      "sentinel",
			enum:      enumType("status", Sentinel),
			values:    []string{Placeholder},
			originals: []string{Placeholder},
		},
		{
			name:      "no values",
			enum:      enumType("status"),
			values:    []string{Placeholder},
			originals: []string{Placeholder},
		},
		{
			name:      "sentinel among real values is kept",
			enum:      enumType("status", "A", Sentinel),
			values:    []string{"A", Sentinel},
			originals: []string{"A", Sentinel},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, originals := enumValues(tt.enum)
			assert.Equal(t, tt.values, values)
			assert.Equal(t, tt.originals, originals)
		})
	}
}

func TestRouteEnum(t *testing.T) {
	g := testGenerator(t, nil)

	// Test: shared enums are imported, never inlined
	res, err := g.routeEnum(enumType("order_status_enum", "OPEN", "CLOSED"))
	require.NoError(t, err)
	assert.Nil(t, res.Variant)
	assert.Equal(t, []ps.Import{ps.NewImport("oa-gql-enums", "OaGqlEnums.OrderStatusEnum", "OrderStatusEnum")}, res.Imports)

	mods := g.shared.Modules()
	require.Len(t, mods, 1)
	out := mods[0].String()
	assert.Contains(t, out, "module OaGqlEnums.OrderStatusEnum (OrderStatusEnum(..)) where")
	assert.Contains(t, out, "data OrderStatusEnum\n  = OPEN\n  | CLOSED")

	// Test: other enums are inlined and leave the registry alone
	res, err = g.routeEnum(enumType("status", "ACTIVE"))
	require.NoError(t, err)
	assert.Equal(t, &ps.Variant{Name: "Status", Tags: []string{"ACTIVE"}}, res.Variant)
	assert.Equal(t, []ps.Import{importUnit, importVariant}, res.Imports)
	assert.Equal(t, 1, g.shared.Len())
}

func TestRouteEnum_SharedSentinel(t *testing.T) {
	g := testGenerator(t, nil)

	_, err := g.routeEnum(enumType("empty_enum", Sentinel))
	require.NoError(t, err)

	out := g.shared.Modules()[0].String()
	assert.Contains(t, out, "data EmptyEnum\n  = ENUM_PLACEHOLDER")
	assert.NotContains(t, out, `"_PLACEHOLDER"`)
}

func TestSharedEnums_ConcurrentAdd(t *testing.T) {
	shared := NewSharedEnums()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				assert.NoError(t, shared.add(&ps.Module{Name: fmt.Sprintf("Enums.E%d", j)}))
			}
		}(i)
	}
	wg.Wait()

	mods := shared.Modules()
	require.Len(t, mods, 10)
	assert.Equal(t, "Enums.E0", mods[0].Name)
	assert.Equal(t, "Enums.E9", mods[9].Name)
}

func TestSharedEnums_SameNameTwice(t *testing.T) {
	shared := NewSharedEnums()
	first := &ps.Module{Name: "Enums.Status", Exports: []string{"Status"}}
	require.NoError(t, shared.add(first))

	// Test: an identical module is accepted and the registry keeps one copy
	require.NoError(t, shared.add(&ps.Module{Name: "Enums.Status", Exports: []string{"Status"}}))
	require.Len(t, shared.Modules(), 1)
	assert.Same(t, first, shared.Modules()[0])

	// Test: a different module under the same name is a conflict
	err := shared.add(&ps.Module{Name: "Enums.Status", Exports: []string{"Status", "allStatus"}})
	assert.ErrorIs(t, err, ErrSharedEnumConflict)
	assert.Contains(t, err.Error(), "Enums.Status")
}

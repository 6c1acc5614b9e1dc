package schema

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/astparser"
)

// ParseSDL parses a GraphQL schema document into the same model that
// DecodeIntrospection produces. Root operation types come from the schema
// definition when there is one, otherwise from the conventional names Query,
// Mutation and Subscription.
func ParseSDL(input string) (*Schema, error) {
	doc, report := astparser.ParseGraphqlDocumentString(input)
	if report.HasErrors() {
		return nil, fmt.Errorf("%w: failed to parse GraphQL: %v", ErrUnrecognizedSchema, report)
	}

	s := &Schema{}
	hasSchemaDefinition := false

	for i := range doc.RootNodes {
		node := &doc.RootNodes[i]
		switch node.Kind {
		case ast.NodeKindSchemaDefinition:
			hasSchemaDefinition = true
			parseSchemaDefinition(&doc, node.Ref, s)
		case ast.NodeKindObjectTypeDefinition:
			def := doc.ObjectTypeDefinitions[node.Ref]
			s.Types = append(s.Types, Type{
				Kind:        KindObject,
				Name:        doc.Input.ByteSliceString(def.Name),
				Description: getDescription(&doc, def.Description),
				Fields:      parseFields(&doc, def.FieldsDefinition.Refs),
			})
		case ast.NodeKindInterfaceTypeDefinition:
			def := doc.InterfaceTypeDefinitions[node.Ref]
			s.Types = append(s.Types, Type{
				Kind:        KindInterface,
				Name:        doc.Input.ByteSliceString(def.Name),
				Description: getDescription(&doc, def.Description),
				Fields:      parseFields(&doc, def.FieldsDefinition.Refs),
			})
		case ast.NodeKindInputObjectTypeDefinition:
			def := doc.InputObjectTypeDefinitions[node.Ref]
			s.Types = append(s.Types, Type{
				Kind:        KindInputObject,
				Name:        doc.Input.ByteSliceString(def.Name),
				Description: getDescription(&doc, def.Description),
				InputFields: parseInputValues(&doc, def.InputFieldsDefinition.Refs),
			})
		case ast.NodeKindEnumTypeDefinition:
			s.Types = append(s.Types, parseEnumType(&doc, node.Ref))
		case ast.NodeKindScalarTypeDefinition:
			def := doc.ScalarTypeDefinitions[node.Ref]
			s.Types = append(s.Types, Type{
				Kind:        KindScalar,
				Name:        doc.Input.ByteSliceString(def.Name),
				Description: getDescription(&doc, def.Description),
			})
		case ast.NodeKindUnionTypeDefinition:
			def := doc.UnionTypeDefinitions[node.Ref]
			s.Types = append(s.Types, Type{
				Kind:        KindUnion,
				Name:        doc.Input.ByteSliceString(def.Name),
				Description: getDescription(&doc, def.Description),
			})
		case ast.NodeKindDirectiveDefinition:
			s.Directives = append(s.Directives, parseDirectiveDefinition(&doc, node.Ref))
		}
	}

	if !hasSchemaDefinition {
		for _, root := range []struct {
			name string
			slot *string
		}{
			{"Query", &s.QueryType},
			{"Mutation", &s.MutationType},
			{"Subscription", &s.SubscriptionType},
		} {
			if _, ok := s.Lookup(root.name); ok {
				*root.slot = root.name
			}
		}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func parseSchemaDefinition(doc *ast.Document, ref int, s *Schema) {
	def := doc.SchemaDefinitions[ref]
	for _, opRef := range def.RootOperationTypeDefinitions.Refs {
		op := doc.RootOperationTypeDefinitions[opRef]
		name := doc.Input.ByteSliceString(op.NamedType.Name)
		switch op.OperationType {
		case ast.OperationTypeQuery:
			s.QueryType = name
		case ast.OperationTypeMutation:
			s.MutationType = name
		case ast.OperationTypeSubscription:
			s.SubscriptionType = name
		}
	}
}

func parseEnumType(doc *ast.Document, ref int) Type {
	enumDef := doc.EnumTypeDefinitions[ref]

	enumType := Type{
		Kind:        KindEnum,
		Name:        doc.Input.ByteSliceString(enumDef.Name),
		Description: getDescription(doc, enumDef.Description),
	}

	for _, valueRef := range enumDef.EnumValuesDefinition.Refs {
		valueDef := doc.EnumValueDefinitions[valueRef]
		enumType.EnumValues = append(enumType.EnumValues, EnumValue{
			Name:        doc.Input.ByteSliceString(valueDef.EnumValue),
			Description: getDescription(doc, valueDef.Description),
		})
	}

	return enumType
}

func parseFields(doc *ast.Document, refs []int) []Field {
	var fields []Field
	for _, fieldRef := range refs {
		fieldDef := doc.FieldDefinitions[fieldRef]
		fields = append(fields, Field{
			Name:        doc.Input.ByteSliceString(fieldDef.Name),
			Description: getDescription(doc, fieldDef.Description),
			Args:        parseInputValues(doc, fieldDef.ArgumentsDefinition.Refs),
			Type:        parseType(doc, fieldDef.Type),
		})
	}
	return fields
}

func parseInputValues(doc *ast.Document, refs []int) []InputValue {
	var values []InputValue
	for _, ref := range refs {
		def := doc.InputValueDefinitions[ref]
		iv := InputValue{
			Name:        doc.Input.ByteSliceString(def.Name),
			Description: getDescription(doc, def.Description),
			Type:        parseType(doc, def.Type),
		}
		if def.DefaultValue.IsDefined {
			iv.DefaultValue = parseValue(doc, def.DefaultValue.Value)
		}
		values = append(values, iv)
	}
	return values
}

func parseDirectiveDefinition(doc *ast.Document, ref int) Directive {
	def := doc.DirectiveDefinitions[ref]
	d := Directive{
		Name:        doc.Input.ByteSliceString(def.Name),
		Description: getDescription(doc, def.Description),
		Args:        parseInputValues(doc, def.ArgumentsDefinition.Refs),
	}
	iter := def.DirectiveLocations.Iterable()
	for iter.Next() {
		d.Locations = append(d.Locations, string(iter.Value().LiteralBytes()))
	}
	return d
}

// parseType walks the AST type from the outside in and returns the wrapping
// innermost first.
func parseType(doc *ast.Document, typeRef int) TypeRef {
	var wrapping []Modifier
	current := typeRef
	for {
		t := doc.Types[current]
		switch t.TypeKind {
		case ast.TypeKindNonNull:
			wrapping = append(wrapping, NonNull)
		case ast.TypeKindList:
			wrapping = append(wrapping, List)
		default:
			slices.Reverse(wrapping)
			return TypeRef{Name: doc.Input.ByteSliceString(t.Name), Wrapping: wrapping}
		}
		current = t.OfType
	}
}

func parseValue(doc *ast.Document, value ast.Value) string {
	switch value.Kind {
	case ast.ValueKindString:
		return strconv.Quote(doc.StringValueContentString(value.Ref))

	case ast.ValueKindEnum:
		if value.Ref >= 0 && value.Ref < len(doc.EnumValues) {
			return doc.Input.ByteSliceString(doc.EnumValues[value.Ref].Name)
		}

	case ast.ValueKindBoolean:
		if value.Ref >= 0 && value.Ref < len(doc.BooleanValues) {
			return strconv.FormatBool(bool(doc.BooleanValues[value.Ref]))
		}

	case ast.ValueKindInteger:
		return strconv.FormatInt(int64(doc.IntValueAsInt(value.Ref)), 10)

	case ast.ValueKindFloat:
		return strconv.FormatFloat(float64(doc.FloatValueAsFloat32(value.Ref)), 'f', -1, 32)

	case ast.ValueKindNull:
		return "null"
	}

	return ""
}

func getDescription(doc *ast.Document, desc ast.Description) string {
	if !desc.IsDefined {
		return ""
	}

	return doc.Input.ByteSliceString(desc.Content)
}

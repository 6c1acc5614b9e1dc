package purescript

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/okra-platform/gqlpurs/internal/codegen/writer"
)

// Capability is one piece of behaviour generated for a standalone enum
// module, usually a type class instance. Render writes the declaration for e;
// Imports lists what the declaration needs in scope.
type Capability struct {
	Name    string
	Imports []Import
	Render  func(w *writer.Writer, e *EnumDecl)
}

var (
	importPrelude     = NewImport("prelude", "Prelude")
	importOn          = NewImport("prelude", "Data.Function", "on")
	importMaybe       = NewImport("maybe", "Data.Maybe", "Maybe(..)")
	importEither      = NewImport("either", "Data.Either", "Either(..)")
	importDecodeJson  = NewImport("argonaut-codecs", "Data.Argonaut.Decode", "class DecodeJson", "JsonDecodeError(..)", "decodeJson")
	importEncodeJson  = NewImport("argonaut-codecs", "Data.Argonaut.Encode", "class EncodeJson", "encodeJson")
	importDecodeAlias = NewAliasImport("argonaut-codecs", "Data.Argonaut.Decode", "D")
	importForeignF    = NewAliasImport("foreign", "Foreign", "F")
	importForeignFC   = NewAliasImport("foreign-generic", "Foreign.Class", "FC")
	importExcept      = NewImport("transformers", "Control.Monad.Except", "except")
	importLmap        = NewImport("bifunctors", "Data.Bifunctor", "lmap")
)

// Shared capabilities: equality, ordering, enumeration, bounds, string
// show/parse, JSON and wire codecs, filter-argument serialisation.
var (
	CapEq = Capability{
		Name:    "Eq",
		Imports: []Import{importPrelude, importOn},
		Render: func(w *writer.Writer, e *EnumDecl) {
			w.WriteBlock("instance Eq "+e.Name+" where", func() {
				w.WriteLine("eq = eq `on` show")
			})
		},
	}

	CapOrd = Capability{
		Name:    "Ord",
		Imports: []Import{importPrelude, importOn},
		Render: func(w *writer.Writer, e *EnumDecl) {
			w.WriteBlock("instance Ord "+e.Name+" where", func() {
				w.WriteLine("compare = compare `on` show")
			})
		},
	}

	CapEnum = Capability{
		Name:    "Enum",
		Imports: []Import{NewImport("enums", "Data.Enum", "class Enum"), importMaybe},
		Render: func(w *writer.Writer, e *EnumDecl) {
			n := len(e.Values)
			succ := make([]string, n)
			pred := make([]string, n)
			for i := range e.Values {
				succ[i], pred[i] = "Nothing", "Nothing"
				if i < n-1 {
					succ[i] = "Just " + e.Values[i+1]
				}
				if i > 0 {
					pred[i] = "Just " + e.Values[i-1]
				}
			}
			w.WriteBlock("instance Enum "+e.Name+" where", func() {
				w.WriteBlock("succ = case _ of", func() { w.WriteCases(e.Values, succ) })
				w.WriteBlock("pred = case _ of", func() { w.WriteCases(e.Values, pred) })
			})
		},
	}

	CapBounded = Capability{
		Name:    "Bounded",
		Imports: []Import{importPrelude},
		Render: func(w *writer.Writer, e *EnumDecl) {
			w.WriteBlock("instance Bounded "+e.Name+" where", func() {
				w.WriteLinef("top = %s", e.Values[len(e.Values)-1])
				w.WriteLinef("bottom = %s", e.Values[0])
			})
		},
	}

	CapBoundedEnum = Capability{
		Name:    "BoundedEnum",
		Imports: []Import{NewImport("enums", "Data.Enum", "class BoundedEnum", "Cardinality(..)"), importMaybe},
		Render: func(w *writer.Writer, e *EnumDecl) {
			idx := make([]string, len(e.Values))
			just := make([]string, len(e.Values))
			for i, v := range e.Values {
				idx[i] = strconv.Itoa(i)
				just[i] = "Just " + v
			}
			w.WriteBlock("instance BoundedEnum "+e.Name+" where", func() {
				w.WriteLinef("cardinality = Cardinality %d", len(e.Values))
				w.WriteBlock("toEnum = case _ of", func() {
					w.WriteCases(idx, just)
					w.WriteLine("_ -> Nothing")
				})
				w.WriteBlock("fromEnum = case _ of", func() { w.WriteCases(e.Values, idx) })
			})
		},
	}

	CapShow = Capability{
		Name:    "Show",
		Imports: []Import{importPrelude},
		Render: func(w *writer.Writer, e *EnumDecl) {
			w.WriteBlock("instance Show "+e.Name+" where", func() {
				w.WriteBlock("show = case _ of", func() { w.WriteCases(e.Values, quoteAll(e.Originals)) })
			})
		},
	}

	CapDecodeJson = Capability{
		Name:    "DecodeJson",
		Imports: []Import{importPrelude, importDecodeJson, importEither},
		Render: func(w *writer.Writer, e *EnumDecl) {
			pure := make([]string, len(e.Values))
			for i, v := range e.Values {
				pure[i] = "pure " + v
			}
			w.WriteBlock("instance DecodeJson "+e.Name+" where", func() {
				w.WriteBlock("decodeJson = decodeJson >=> case _ of", func() {
					w.WriteCases(quoteAll(e.Originals), pure)
					w.WriteLinef(`s -> Left $ TypeMismatch $ "Not a %s: " <> s`, e.Name)
				})
			})
		},
	}

	CapEncodeJson = Capability{
		Name:    "EncodeJson",
		Imports: []Import{importPrelude, importEncodeJson},
		Render: func(w *writer.Writer, e *EnumDecl) {
			w.WriteBlock("instance EncodeJson "+e.Name+" where", func() {
				w.WriteLine("encodeJson = show >>> encodeJson")
			})
		},
	}

	CapWireDecode = Capability{
		Name: "Decode",
		Imports: []Import{
			importPrelude, importDecodeJson, importDecodeAlias, importForeignF, importForeignFC,
			NewImport("foreign", "Foreign", "unsafeFromForeign"), importExcept, importLmap,
		},
		Render: func(w *writer.Writer, e *EnumDecl) {
			w.WriteBlock("instance FC.Decode "+e.Name+" where", func() {
				w.WriteLine("decode = unsafeFromForeign >>> decodeJson >>> lmap (D.printJsonDecodeError >>> F.ForeignError >>> pure) >>> except")
			})
		},
	}

	CapWireEncode = Capability{
		Name:    "Encode",
		Imports: []Import{importPrelude, importEncodeJson, importForeignFC, NewImport("foreign", "Foreign", "unsafeToForeign")},
		Render: func(w *writer.Writer, e *EnumDecl) {
			w.WriteBlock("instance FC.Encode "+e.Name+" where", func() {
				w.WriteLine("encode = encodeJson >>> unsafeToForeign")
			})
		},
	}

	CapDecodeHasura = Capability{
		Name:    "DecodeHasura",
		Imports: []Import{importDecodeJson, NewImport("graphql-client", "GraphQL.Hasura.Decode", "class DecodeHasura")},
		Render: func(w *writer.Writer, e *EnumDecl) {
			w.WriteBlock("instance DecodeHasura "+e.Name+" where", func() {
				w.WriteLine("decodeHasura = decodeJson")
			})
		},
	}

	CapEncodeHasura = Capability{
		Name:    "EncodeHasura",
		Imports: []Import{importPrelude, importEncodeJson, NewImport("graphql-client", "GraphQL.Hasura.Encode", "class EncodeHasura")},
		Render: func(w *writer.Writer, e *EnumDecl) {
			w.WriteBlock("instance EncodeHasura "+e.Name+" where", func() {
				w.WriteLine("encodeHasura = show >>> encodeJson")
			})
		},
	}

	CapGqlArgString = Capability{
		Name:    "GqlArgString",
		Imports: []Import{importPrelude, NewImport("graphql-client", "GraphQL.Client.ToGqlString", "class GqlArgString")},
		Render: func(w *writer.Writer, e *EnumDecl) {
			w.WriteBlock("instance GqlArgString "+e.Name+" where", func() {
				w.WriteLine("toGqlArgStringImpl = show")
			})
		},
	}
)

// Capabilities specific to enums read from the database catalog. Values there
// travel as plain strings, so the wire codecs go through readString and the
// filter serialisation quotes the value.
var (
	CapAllValues = Capability{
		Name: "all",
		Render: func(w *writer.Writer, e *EnumDecl) {
			w.WriteLinef("all%s :: Array %s", e.Name, e.Name)
			w.WriteBlock("all"+e.Name+" =", func() {
				for i, v := range e.Values {
					sep := ","
					if i == 0 {
						sep = "["
					}
					w.WriteLinef("%s %s", sep, v)
				}
				w.WriteLine("]")
			})
		},
	}

	CapEnumByIndex = Capability{
		Name:    "Enum",
		Imports: []Import{importPrelude, NewImport("enums", "Data.Enum", "class Enum"), NewImport("arrays", "Data.Array", "findIndex", "(!!)")},
		Render: func(w *writer.Writer, e *EnumDecl) {
			all := "all" + e.Name
			w.WriteBlock("instance Enum "+e.Name+" where", func() {
				w.WriteBlock("pred a = do", func() {
					w.WriteLinef("idx <- findIndex (eq a) %s", all)
					w.WriteLinef("%s !! (idx - 1)", all)
				})
				w.WriteBlock("succ a = do", func() {
					w.WriteLinef("idx <- findIndex (eq a) %s", all)
					w.WriteLinef("%s !! (idx + 1)", all)
				})
			})
		},
	}

	CapReadStringDecode = Capability{
		Name: "Decode",
		Imports: []Import{
			importPrelude, importDecodeJson, importExcept, importLmap,
			NewImport("argonaut", "Data.Argonaut", "fromString", "printJsonDecodeError"),
			NewImport("foreign", "Foreign", "ForeignError(ForeignError)", "readString"),
			NewImport("foreign-generic", "Foreign.Class", "class Decode", "decode"),
		},
		Render: func(w *writer.Writer, e *EnumDecl) {
			w.WriteBlock("instance Decode "+e.Name+" where", func() {
				w.WriteLine("decode = readString >=> (fromString >>> decodeJson >>> lmap (printJsonDecodeError >>> ForeignError >>> pure) >>> except)")
			})
		},
	}

	CapShowEncode = Capability{
		Name:    "Encode",
		Imports: []Import{importPrelude, NewImport("foreign-generic", "Foreign.Class", "class Encode", "encode")},
		Render: func(w *writer.Writer, e *EnumDecl) {
			w.WriteBlock("instance Encode "+e.Name+" where", func() {
				w.WriteLine("encode = show >>> encode")
			})
		},
	}

	CapWriteForeign = Capability{
		Name:    "WriteForeign",
		Imports: []Import{NewImport("foreign-generic", "Foreign.Class", "encode"), NewImport("simple-json", "Simple.JSON", "class WriteForeign")},
		Render: func(w *writer.Writer, e *EnumDecl) {
			w.WriteBlock("instance WriteForeign "+e.Name+" where", func() {
				w.WriteLine("writeImpl = encode")
			})
		},
	}

	CapReadForeign = Capability{
		Name:    "ReadForeign",
		Imports: []Import{NewImport("foreign-generic", "Foreign.Class", "decode"), NewImport("simple-json", "Simple.JSON", "class ReadForeign")},
		Render: func(w *writer.Writer, e *EnumDecl) {
			w.WriteBlock("instance ReadForeign "+e.Name+" where", func() {
				w.WriteLine("readImpl = decode")
			})
		},
	}

	CapQuotedGqlArgString = Capability{
		Name:    "GqlArgString",
		Imports: []Import{importPrelude, NewImport("graphql-client", "GraphQL.Client.ToGqlString", "class GqlArgString")},
		Render: func(w *writer.Writer, e *EnumDecl) {
			w.WriteBlock("instance GqlArgString "+e.Name+" where", func() {
				w.WriteLine("toGqlArgStringImpl = show >>> show")
			})
		},
	}
)

// SharedEnumCapabilities is the instance set of GraphQL enums shared by every
// role.
var SharedEnumCapabilities = []Capability{
	CapWireDecode, CapWireEncode, CapEq, CapOrd, CapGqlArgString, CapDecodeJson,
	CapEncodeJson, CapDecodeHasura, CapEncodeHasura, CapShow, CapEnum, CapBounded,
	CapBoundedEnum,
}

// CatalogEnumCapabilities is the instance set of database enums.
var CatalogEnumCapabilities = []Capability{
	CapAllValues, CapEq, CapOrd, CapEnumByIndex, CapBounded, CapReadStringDecode,
	CapShowEncode, CapWriteForeign, CapReadForeign, CapDecodeHasura, CapEncodeHasura,
	CapShow, CapQuotedGqlArgString, CapDecodeJson,
}

// EnumModule builds the standalone module declaring e together with caps.
// The module exports the type and its constructors.
func EnumModule(moduleName string, e *EnumDecl, caps []Capability) *Module {
	m := &Module{
		Name:    moduleName,
		Exports: []string{e.Name + "(..)"},
		Data:    []*EnumDecl{e},
	}
	for _, c := range caps {
		m.Imports = append(m.Imports, c.Imports...)
		m.Blocks = append(m.Blocks, RenderCapability(c, e))
	}
	return m
}

// RenderCapability renders a single capability for e.
func RenderCapability(c Capability, e *EnumDecl) string {
	w := writer.NewWriter("  ")
	c.Render(w, e)
	return strings.TrimRight(w.String(), "\n")
}

func quoteAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprintf("%q", v)
	}
	return out
}

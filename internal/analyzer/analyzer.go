package analyzer

import (
	"fmt"

	"github.com/iancoleman/strcase"
	"github.com/mcncl/tstyper/internal/models"
)

// minEnumLength is the smallest string array treated as an enum.
const minEnumLength = 2

// enumAliasSuffix is appended to a root-level key to name its enum alias.
const enumAliasSuffix = "Type"

// Analyzer infers types from JSON values and plans the declarations to print.
type Analyzer struct {
	// opts holds the options for the current inference call
	opts models.Options
	// aliasNames tracks generated alias names to avoid collisions
	aliasNames map[string]int
	// analysisResult holds the declarations discovered so far
	analysisResult models.AnalysisResult
}

// NewAnalyzer creates a new Analyzer instance.
func NewAnalyzer(opts models.Options) *Analyzer {
	a := &Analyzer{opts: opts}
	a.reset()
	return a
}

func (a *Analyzer) reset() {
	a.aliasNames = map[string]int{
		a.opts.RootName: 1,
	}
	if a.opts.ItemName != "" {
		a.aliasNames[a.opts.ItemName] = 1
	}
	a.analysisResult = models.AnalysisResult{
		Aliases:      make([]models.Declaration, 0),
		Declarations: make([]models.Declaration, 0),
	}
}

// Analyze plans the top-level declarations for ir.
// Each call starts from a clean state, so an Analyzer can be reused.
func (a *Analyzer) Analyze(ir models.IntermediateRepresentation) models.AnalysisResult {
	a.reset()

	root := ir.Root
	switch {
	case ir.RootIsArray && len(root.Items) == 0:
		a.declare(models.AliasDeclaration, a.opts.RootName, models.TypeInfo{Kind: models.AnyArray})

	case ir.RootIsArray:
		// The item type comes from the first element only.
		itemType := a.InferType(root.Items[0], a.opts.ItemName, false)
		a.declare(a.objectDeclarationKind(itemType), a.opts.ItemName, itemType)
		a.declare(models.AliasDeclaration, a.opts.RootName, models.TypeInfo{
			Kind:    models.HomogeneousArray,
			Element: &models.TypeInfo{Kind: models.Reference, Name: a.opts.ItemName},
		})

	case root.Kind == models.Object:
		rootType := a.analyzeObject(root, true)
		a.declare(a.objectDeclarationKind(rootType), a.opts.RootName, rootType)

	default:
		a.declare(models.AliasDeclaration, a.opts.RootName, a.InferType(root, a.opts.RootName, false))
	}

	return a.analysisResult
}

// InferType is the recursive inference rule. contextKey names the property
// (or declaration) the value belongs to. isRootLevel is true only for values
// that are direct properties of the outermost object.
func (a *Analyzer) InferType(value models.JSONValue, contextKey string, isRootLevel bool) models.TypeInfo {
	switch value.Kind {
	case models.Null:
		return models.TypeInfo{Kind: models.NullType}
	case models.Boolean:
		return models.TypeInfo{Kind: models.Primitive, Name: models.TypeBoolean}
	case models.Number:
		return models.TypeInfo{Kind: models.Primitive, Name: models.TypeNumber}
	case models.String:
		return models.TypeInfo{Kind: models.Primitive, Name: models.TypeString}
	case models.Array:
		return a.analyzeArray(value.Items, contextKey, isRootLevel)
	case models.Object:
		return a.analyzeObject(value, false)
	default:
		panic(fmt.Sprintf("analyzer: unhandled JSON kind %v", value.Kind))
	}
}

func (a *Analyzer) analyzeObject(obj models.JSONValue, isRootObject bool) models.TypeInfo {
	fields := make([]models.FieldInfo, 0, len(obj.Members))
	for _, m := range obj.Members {
		fields = append(fields, models.FieldInfo{
			Name:     m.Key,
			Type:     a.InferType(m.Value, m.Key, isRootObject),
			Optional: a.opts.OptionalOnNull && m.Value.Kind == models.Null,
		})
	}
	return models.TypeInfo{Kind: models.ObjectType, Fields: fields}
}

func (a *Analyzer) analyzeArray(arr []models.JSONValue, contextKey string, isRootLevel bool) models.TypeInfo {
	if len(arr) == 0 {
		return models.TypeInfo{Kind: models.AnyArray}
	}

	if literals, ok := a.detectStringEnum(arr); ok {
		enum := models.TypeInfo{Kind: models.StringEnumArray, Literals: literals}
		if isRootLevel {
			enum.Alias = a.generateUniqueAliasName(enumAliasName(contextKey))
			a.analysisResult.Aliases = append(a.analysisResult.Aliases, models.Declaration{
				Kind: models.AliasDeclaration,
				Name: enum.Alias,
				Type: models.TypeInfo{Kind: models.Literal, Literals: literals},
			})
		}
		return enum
	}

	// Distinctness is decided on the rendered form of each element type.
	var distinct []models.TypeInfo
	seen := make(map[string]bool)
	for _, element := range arr {
		elementType := a.InferType(element, contextKey, false)
		key := elementType.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		distinct = append(distinct, elementType)
	}

	if len(distinct) > 1 {
		return models.TypeInfo{Kind: models.UnionArray, Members: distinct}
	}

	first := distinct[0]
	return models.TypeInfo{Kind: models.HomogeneousArray, Element: &first}
}

// detectStringEnum reports whether arr qualifies as a string enum and, if so,
// returns its values in order.
func (a *Analyzer) detectStringEnum(arr []models.JSONValue) ([]string, bool) {
	if !a.opts.DetectStringEnums || len(arr) < minEnumLength {
		return nil, false
	}
	literals := make([]string, 0, len(arr))
	for _, element := range arr {
		if element.Kind != models.String {
			return nil, false
		}
		literals = append(literals, element.Text)
	}
	return literals, true
}

func (a *Analyzer) objectDeclarationKind(t models.TypeInfo) models.DeclarationKind {
	if t.Kind == models.ObjectType && a.opts.Style == models.StyleInterface {
		return models.InterfaceDeclaration
	}
	return models.AliasDeclaration
}

func (a *Analyzer) declare(kind models.DeclarationKind, name string, t models.TypeInfo) {
	a.analysisResult.Declarations = append(a.analysisResult.Declarations, models.Declaration{
		Kind: kind,
		Name: name,
		Type: t,
	})
}

// generateUniqueAliasName ensures the alias name is unique by appending a number if needed.
func (a *Analyzer) generateUniqueAliasName(baseName string) string {
	name := baseName
	count := a.aliasNames[baseName]
	if count > 0 {
		name = fmt.Sprintf("%s%d", baseName, count)
	}
	a.aliasNames[baseName] = count + 1
	return name
}

// enumAliasName derives the alias name for the enum stored under key.
// Identifier keys are used as-is; anything else is camel-cased first.
func enumAliasName(key string) string {
	if models.IsIdentifier(key) {
		return key + enumAliasSuffix
	}
	name := strcase.ToLowerCamel(key)
	if !models.IsIdentifier(name) {
		name = "_" + name
		if !models.IsIdentifier(name) {
			name = "enum"
		}
	}
	return name + enumAliasSuffix
}

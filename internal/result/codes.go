package result

import "structscan/internal/features"

// issueCode maps a recommendation type to its namespaced issue code and
// dictionary text (spec §4.M: "ISS.DUPLICATION.EXACT", "ISS.COMPLEXITY.CYCLO.HIGH").
var issueCode = map[features.RecommendationType]DictionaryEntry{
	features.RecommendationLongMethod: {
		Code: "ISS.SIZE.METHOD.LONG", Title: "Long method",
		Description: "Method body exceeds the configured line-count threshold, making it harder to read and test as a unit.",
	},
	features.RecommendationComplexConditional: {
		Code: "ISS.COMPLEXITY.CYCLO.HIGH", Title: "High cyclomatic complexity",
		Description: "Cyclomatic complexity exceeds the configured threshold, indicating many independent execution paths.",
	},
	features.RecommendationDuplicateCode: {
		Code: "ISS.DUPLICATION.NEAR", Title: "Near-duplicate code",
		Description: "Entity shares significant structural similarity with one or more other entities in the codebase.",
	},
	features.RecommendationLargeType: {
		Code: "ISS.SIZE.TYPE.LARGE", Title: "Large type",
		Description: "Type has more members than the configured threshold, suggesting it may have multiple responsibilities.",
	},
	features.RecommendationNonIdiomaticNaming: {
		Code: "ISS.NAMING.NONIDIOMATIC", Title: "Non-idiomatic naming",
		Description: "Identifier is unusually short or mixes naming conventions in a way inconsistent with the surrounding codebase.",
	},
	features.RecommendationMissingDocs: {
		Code: "ISS.DOCS.MISSING", Title: "Missing or incomplete documentation",
		Description: "Entity lacks a preceding doc comment, or its doc comment is shorter than the configured minimum.",
	},
}

// suggestionCode maps a recommendation type to the refactoring suggestion
// it implies (spec §4.M: "SUG.EXTRACT.METHOD").
var suggestionCode = map[features.RecommendationType]DictionaryEntry{
	features.RecommendationLongMethod: {
		Code: "SUG.EXTRACT.METHOD", Title: "Extract method",
		Description: "Split the method into smaller, named steps, each with a single responsibility.",
	},
	features.RecommendationComplexConditional: {
		Code: "SUG.SIMPLIFY.CONDITIONAL", Title: "Simplify conditional logic",
		Description: "Reduce nested branching, e.g. via guard clauses, polymorphic dispatch, or table-driven logic.",
	},
	features.RecommendationDuplicateCode: {
		Code: "SUG.EXTRACT.COMMON", Title: "Extract shared implementation",
		Description: "Factor the duplicated logic into a shared function or type used by all near-duplicate sites.",
	},
	features.RecommendationLargeType: {
		Code: "SUG.SPLIT.TYPE", Title: "Split type",
		Description: "Separate unrelated responsibilities into distinct types.",
	},
	features.RecommendationNonIdiomaticNaming: {
		Code: "SUG.RENAME.IDENTIFIER", Title: "Rename identifier",
		Description: "Rename to a clearer, convention-consistent identifier.",
	},
	features.RecommendationMissingDocs: {
		Code: "SUG.ADD.DOC", Title: "Add documentation",
		Description: "Add a doc comment describing the entity's purpose, parameters, and return behavior.",
	},
}
